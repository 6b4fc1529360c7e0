package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dileep-u-k/weather-agent/internal/api"
	"github.com/dileep-u-k/weather-agent/internal/tools"
	"github.com/dileep-u-k/weather-agent/internal/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWeather struct {
	places  []string
	geoErr  error
	code    int
	tempC   float64
	windKPH float64
}

func (f *fakeWeather) ResolveCoordinates(_ context.Context, place string) (weather.Coordinates, error) {
	f.places = append(f.places, place)
	if f.geoErr != nil {
		return weather.Coordinates{}, f.geoErr
	}
	return weather.Coordinates{Latitude: 48.85, Longitude: 2.35}, nil
}

func (f *fakeWeather) CurrentConditions(_ context.Context, _, _ float64) (*weather.Conditions, error) {
	return &weather.Conditions{Temperature: f.tempC, WindSpeed: f.windKPH, WeatherCode: f.code}, nil
}

func newTestPlanner(t *testing.T, fw *fakeWeather) *Planner {
	t.Helper()
	reg := tools.NewRegistry()
	reg.MustRegister(tools.NewWeatherTool(fw, fw), tools.NewAttractionTool())

	policy := NewHeuristicPolicy("")
	policy.newID = func() string { return "call_test" }

	p := New(policy, tools.NewInvoker(reg), "")
	p.now = func() time.Time { return time.UnixMilli(1760000000000) }
	p.newID = func() string { return "chatcmpl-test" }
	return p
}

func userMessage(content string) []api.Message {
	return []api.Message{{Role: api.RoleUser, Content: content}}
}

func weatherTools() []tools.Tool {
	return []tools.Tool{tools.WeatherToolSchema()}
}

func TestExtractSubject(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"Get the weather information for Austin", "Austin"},
		{"weather for Paris please", "Paris"},
		{"forecast for   Berlin", "Berlin"},
		{"for New York", "New"},
		{"what is it like in Rome", UnknownSubject},
		{"", UnknownSubject},
		{"for", UnknownSubject},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractSubject(tt.content), "content %q", tt.content)
	}
}

func TestHeuristicPolicy_Select(t *testing.T) {
	policy := NewHeuristicPolicy(tools.WeatherToolName)

	call, err := policy.Select(userMessage("Get the weather information for Paris"), weatherTools())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(call.ID, api.ToolCallIDPrefix))
	assert.Equal(t, tools.ToolTypeFunction, call.Type)
	assert.Equal(t, tools.WeatherToolName, call.Function.Name)
	assert.JSONEq(t, `{"city":"Paris"}`, call.Function.Arguments)
}

func TestHeuristicPolicy_UsesLastMessage(t *testing.T) {
	policy := NewHeuristicPolicy("")
	messages := []api.Message{
		{Role: api.RoleUser, Content: "weather for Oslo"},
		{Role: api.RoleUser, Content: "actually, weather for Lima"},
	}

	call, err := policy.Select(messages, weatherTools())
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Lima"}`, call.Function.Arguments)
}

func TestHeuristicPolicy_InvalidInput(t *testing.T) {
	policy := NewHeuristicPolicy("")

	_, err := policy.Select(nil, weatherTools())
	assert.ErrorIs(t, err, ErrInvalidPlannerInput)

	_, err = policy.Select(userMessage("weather for Paris"), nil)
	assert.ErrorIs(t, err, ErrInvalidPlannerInput)
}

func TestHeuristicPolicy_NoMatchingTool(t *testing.T) {
	policy := NewHeuristicPolicy("")
	available := []tools.Tool{tools.NewAttractionTool().Definition()}

	_, err := policy.Select(userMessage("weather for Paris"), available)
	assert.ErrorIs(t, err, ErrNoMatchingTool)
}

func TestPlanner_RunExecutesWeatherTool(t *testing.T) {
	fw := &fakeWeather{code: 0, tempC: 21.5, windKPH: 7}
	p := newTestPlanner(t, fw)

	call, result, err := p.Run(context.Background(), userMessage("Get the weather information for Paris"), weatherTools())
	require.NoError(t, err)
	assert.Equal(t, "call_test", call.ID)
	assert.Equal(t, "call_test", result.ToolCallID)
	assert.Equal(t, []string{"Paris"}, fw.places)
	assert.Contains(t, string(result.Payload), "Clear sky")
}

func TestPlanner_RunWithoutSubjectQueriesUnknown(t *testing.T) {
	fw := &fakeWeather{}
	p := newTestPlanner(t, fw)

	_, _, err := p.Run(context.Background(), userMessage("how is the weather"), weatherTools())
	require.NoError(t, err)
	assert.Equal(t, []string{UnknownSubject}, fw.places)
}

func TestPlanner_RunNoMatchingToolSkipsInvocation(t *testing.T) {
	fw := &fakeWeather{}
	p := newTestPlanner(t, fw)
	available := []tools.Tool{tools.NewAttractionTool().Definition()}

	call, result, err := p.Run(context.Background(), userMessage("weather for Paris"), available)
	assert.ErrorIs(t, err, ErrNoMatchingTool)
	assert.Nil(t, call)
	assert.Nil(t, result)
	assert.Empty(t, fw.places)
}

func TestPlanner_RunPropagatesToolError(t *testing.T) {
	fw := &fakeWeather{geoErr: fmt.Errorf("%w: 'Atlantis'", weather.ErrLocationNotFound)}
	p := newTestPlanner(t, fw)

	call, result, err := p.Run(context.Background(), userMessage("weather for Atlantis"), weatherTools())
	require.Error(t, err)
	assert.NotNil(t, call)
	assert.Nil(t, result)

	var terr *tools.ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, tools.KindToolExecutionFailed, terr.Kind)
	assert.ErrorIs(t, err, weather.ErrLocationNotFound)
}

func TestPlanner_CompleteBuildsEnvelope(t *testing.T) {
	fw := &fakeWeather{code: 3, tempC: 12, windKPH: 20}
	p := newTestPlanner(t, fw)

	completion, err := p.Complete(context.Background(), "", userMessage("weather for Paris"), weatherTools())
	require.NoError(t, err)

	encoded, err := json.Marshal(completion)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"created": 1760000000000,
		"model": "heuristic-planner",
		"choices": [{
			"index": 0,
			"message": {
				"role": "assistant",
				"content": null,
				"tool_calls": [{
					"id": "call_test",
					"type": "function",
					"function": {"name": "get-weather", "arguments": "{\"city\":\"Paris\"}"}
				}]
			},
			"finish_reason": "tool_calls"
		}],
		"usage": {"prompt_tokens": 0, "completion_tokens": 0, "total_tokens": 0},
		"tool_outputs": [{
			"tool_call_id": "call_test",
			"output": {
				"location": {"name": "Paris", "lat": 48.85, "lon": 2.35},
				"current": {"temp_c": 12, "wind_kph": 20, "condition": {"text": "Overcast"}}
			}
		}]
	}`, string(encoded))
}

func TestPlanner_CompleteModelOverride(t *testing.T) {
	p := newTestPlanner(t, &fakeWeather{})

	completion, err := p.Complete(context.Background(), "custom-model", userMessage("weather for Paris"), weatherTools())
	require.NoError(t, err)
	assert.Equal(t, "custom-model", completion.Model)
}

func TestPlanner_CompleteFailureHasNoEnvelope(t *testing.T) {
	p := newTestPlanner(t, &fakeWeather{})

	completion, err := p.Complete(context.Background(), "", nil, weatherTools())
	assert.Nil(t, completion)
	assert.ErrorIs(t, err, ErrInvalidPlannerInput)
}
