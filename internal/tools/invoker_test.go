package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedOutcome struct {
	tool    string
	success bool
	kind    Kind
}

type fakeRecorder struct {
	outcomes []recordedOutcome
}

func (f *fakeRecorder) RecordSuccess(_ context.Context, toolName string, _ time.Duration) {
	f.outcomes = append(f.outcomes, recordedOutcome{tool: toolName, success: true})
}

func (f *fakeRecorder) RecordFailure(_ context.Context, toolName string, kind Kind) {
	f.outcomes = append(f.outcomes, recordedOutcome{tool: toolName, kind: kind})
}

func newInvokerWith(t *testing.T, tools ...ToolExecutor) (*Invoker, *fakeRecorder) {
	t.Helper()
	r := NewRegistry()
	for _, tool := range tools {
		require.NoError(t, r.Register(tool))
	}
	rec := &fakeRecorder{}
	return NewInvoker(r, WithRecorder(rec)), rec
}

func TestInvoke_UnregisteredToolReturnsToolNotFound(t *testing.T) {
	inv, rec := newInvokerWith(t, newStub("echo"))

	var (
		res  *Result
		terr *ToolError
	)
	assert.NotPanics(t, func() {
		res, terr = inv.Invoke(context.Background(), "ghost", Arguments{})
	})
	assert.Nil(t, res)
	require.NotNil(t, terr)
	assert.Equal(t, KindToolNotFound, terr.Kind)
	assert.ErrorIs(t, terr, ErrToolNotFound)
	assert.Contains(t, terr.Error(), "ghost")
	assert.Empty(t, rec.outcomes)
}

func TestInvoke_Success(t *testing.T) {
	tool := newStub("echo", "message")
	tool.run = func(_ context.Context, args Arguments) (any, error) {
		msg, _ := args.String("message")
		return map[string]string{"echo": msg}, nil
	}
	inv, rec := newInvokerWith(t, tool)

	res, terr := inv.Invoke(context.Background(), "echo", Arguments{"message": "hi"})
	require.Nil(t, terr)
	assert.Equal(t, "echo", res.ToolName)
	assert.JSONEq(t, `{"echo":"hi"}`, string(res.Payload))
	assert.Equal(t, 1, tool.calls)
	assert.Equal(t, []recordedOutcome{{tool: "echo", success: true}}, rec.outcomes)
}

func TestInvoke_BodyFailureIsWrapped(t *testing.T) {
	cause := errors.New("City not found")
	tool := newStub("get-weather")
	tool.run = func(context.Context, Arguments) (any, error) { return nil, cause }
	inv, rec := newInvokerWith(t, tool)

	_, terr := inv.Invoke(context.Background(), "get-weather", Arguments{})
	require.NotNil(t, terr)
	assert.Equal(t, KindToolExecutionFailed, terr.Kind)
	assert.Equal(t, "City not found", terr.Message)
	assert.ErrorIs(t, terr, ErrToolExecutionFailed)
	assert.ErrorIs(t, terr, cause)
	assert.Equal(t, 1, tool.calls, "a failed body must not be retried")
	assert.Equal(t, []recordedOutcome{{tool: "get-weather", kind: KindToolExecutionFailed}}, rec.outcomes)
}

func TestInvoke_PanicIsContained(t *testing.T) {
	tool := newStub("boom")
	tool.run = func(context.Context, Arguments) (any, error) { panic("kaboom") }
	inv, _ := newInvokerWith(t, tool)

	var terr *ToolError
	assert.NotPanics(t, func() {
		_, terr = inv.Invoke(context.Background(), "boom", Arguments{})
	})
	require.NotNil(t, terr)
	assert.Equal(t, KindToolExecutionFailed, terr.Kind)
	assert.Contains(t, terr.Message, "kaboom")
}

func TestInvoke_UnserializableResult(t *testing.T) {
	tool := newStub("chan")
	tool.run = func(context.Context, Arguments) (any, error) { return make(chan int), nil }
	inv, _ := newInvokerWith(t, tool)

	_, terr := inv.Invoke(context.Background(), "chan", Arguments{})
	require.NotNil(t, terr)
	assert.Equal(t, KindToolExecutionFailed, terr.Kind)
}

func TestInvoke_ArgumentChecks(t *testing.T) {
	tool := newStub("get-weather", "city")
	inv, _ := newInvokerWith(t, tool)

	tests := []struct {
		name string
		args Arguments
	}{
		{"missing required", Arguments{}},
		{"null required", Arguments{"city": nil}},
		{"wrong type", Arguments{"city": 42.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, terr := inv.Invoke(context.Background(), "get-weather", tt.args)
			require.NotNil(t, terr)
			assert.Equal(t, KindInvalidArguments, terr.Kind)
			assert.ErrorIs(t, terr, ErrInvalidArguments)
		})
	}
	assert.Zero(t, tool.calls, "the body must not run with invalid arguments")
}

func TestInvokeCall_DecodesArguments(t *testing.T) {
	tool := newStub("get-weather", "city")
	var seen string
	tool.run = func(_ context.Context, args Arguments) (any, error) {
		seen, _ = args.String("city")
		return "ok", nil
	}
	inv, _ := newInvokerWith(t, tool)

	call := ToolCall{ID: "call_1", Type: ToolTypeFunction, Function: ToolCallFunction{Name: "get-weather", Arguments: `{"city":"Paris"}`}}
	res, terr := inv.InvokeCall(context.Background(), call)
	require.Nil(t, terr)
	assert.Equal(t, "Paris", seen)
	assert.Equal(t, "call_1", res.ToolCallID)
}

func TestInvokeCall_BadArgumentsJSON(t *testing.T) {
	tool := newStub("get-weather")
	inv, _ := newInvokerWith(t, tool)

	call := ToolCall{ID: "call_2", Function: ToolCallFunction{Name: "get-weather", Arguments: `["not","an","object"]`}}
	_, terr := inv.InvokeCall(context.Background(), call)
	require.NotNil(t, terr)
	assert.Equal(t, KindInvalidArguments, terr.Kind)
	assert.Equal(t, "call_2", terr.ToolCallID)
	assert.Zero(t, tool.calls)
}

func TestResult_RoundTripPreservesPayload(t *testing.T) {
	payload := map[string]any{
		"location": map[string]any{"name": "Paris", "lat": 48.85, "lon": 2.35},
		"current":  map[string]any{"temp_c": 21.5, "condition": map[string]any{"text": "Clear sky"}},
		"tags":     []any{"a", "b"},
	}
	tool := newStub("report")
	tool.run = func(context.Context, Arguments) (any, error) { return payload, nil }
	inv, _ := newInvokerWith(t, tool)

	res, terr := inv.Invoke(context.Background(), "report", Arguments{})
	require.Nil(t, terr)

	encoded, err := json.Marshal(res)
	require.NoError(t, err)
	var decoded Result
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	var got map[string]any
	require.NoError(t, json.Unmarshal(decoded.Payload, &got))
	assert.Equal(t, payload, got)
}

func TestArguments_String(t *testing.T) {
	args := Arguments{"s": "x", "n": 3.5, "b": true, "nil": nil, "obj": map[string]any{}}

	v, ok := args.String("s")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	v, ok = args.String("n")
	assert.True(t, ok)
	assert.Equal(t, "3.5", v)

	_, ok = args.String("nil")
	assert.False(t, ok)
	_, ok = args.String("obj")
	assert.False(t, ok)
	_, ok = args.String("absent")
	assert.False(t, ok)
}
