// In file: internal/tools/weather_tool.go
package tools

import (
	"context"
	"errors"

	"github.com/dileep-u-k/weather-agent/internal/weather"
)

// --- Weather Tool Implementation ---

// WeatherToolName is the name planners select for weather questions.
const WeatherToolName = "get-weather"

// WeatherTool resolves a city to coordinates and reports the current conditions there.
// The geocoder and the conditions provider are injected so they can be cached,
// retried, or faked independently.
type WeatherTool struct {
	geocoder   weather.Geocoder
	conditions weather.ConditionsProvider
}

// Statically verify that WeatherTool implements the ToolExecutor interface.
var _ ToolExecutor = (*WeatherTool)(nil)

func NewWeatherTool(geocoder weather.Geocoder, conditions weather.ConditionsProvider) *WeatherTool {
	return &WeatherTool{geocoder: geocoder, conditions: conditions}
}

// WeatherReport is the JSON payload of the tool.
type WeatherReport struct {
	Location ReportLocation `json:"location"`
	Current  ReportCurrent  `json:"current"`
}

type ReportLocation struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type ReportCurrent struct {
	TempC     float64         `json:"temp_c"`
	WindKPH   float64         `json:"wind_kph"`
	Condition ReportCondition `json:"condition"`
}

type ReportCondition struct {
	Text string `json:"text"`
}

func (wt *WeatherTool) Definition() Tool {
	return WeatherToolSchema()
}

// WeatherToolSchema is the advertised schema of the weather tool. Clients that
// post tool lists to the gateway send this same definition.
func WeatherToolSchema() Tool {
	return NewFunctionTool(
		WeatherToolName,
		"Gets weather information of a particular city",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"city": {
					Type:        "string",
					Description: "The city name",
				},
			},
			Required: []string{"city"},
		},
	)
}

// Execute looks up the coordinates first, because the conditions lookup needs them.
func (wt *WeatherTool) Execute(ctx context.Context, args Arguments) (any, error) {
	city, ok := args.String("city")
	if !ok || city == "" {
		return nil, errors.New("city cannot be empty")
	}

	coords, err := wt.geocoder.ResolveCoordinates(ctx, city)
	if err != nil {
		return nil, err
	}

	current, err := wt.conditions.CurrentConditions(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		return nil, err
	}

	return WeatherReport{
		Location: ReportLocation{Name: city, Lat: coords.Latitude, Lon: coords.Longitude},
		Current: ReportCurrent{
			TempC:     current.Temperature,
			WindKPH:   current.WindSpeed,
			Condition: ReportCondition{Text: weather.ConditionText(current.WeatherCode)},
		},
	}, nil
}
