// In file: internal/tools/invoker.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Result is the successful outcome of one tool call.
type Result struct {
	ToolCallID string          `json:"tool_call_id"`
	ToolName   string          `json:"tool_name"`
	Payload    json.RawMessage `json:"payload"`
}

// Recorder observes invocation outcomes. The redis-backed Profiler implements it.
type Recorder interface {
	RecordSuccess(ctx context.Context, toolName string, latency time.Duration)
	RecordFailure(ctx context.Context, toolName string, kind Kind)
}

// Invoker executes tool calls against a Registry.
//
// Every call runs the tool body at most once; nothing is retried here. All
// failures, including panics raised by a tool body, come back as *ToolError
// values instead of escaping the call.
type Invoker struct {
	registry *Registry
	recorder Recorder
}

// InvokerOption configures optional collaborators of an Invoker.
type InvokerOption func(*Invoker)

// WithRecorder attaches an outcome recorder.
func WithRecorder(rec Recorder) InvokerOption {
	return func(inv *Invoker) {
		inv.recorder = rec
	}
}

func NewInvoker(registry *Registry, opts ...InvokerOption) *Invoker {
	inv := &Invoker{registry: registry}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke runs the named tool with an already decoded argument map.
func (inv *Invoker) Invoke(ctx context.Context, name string, args Arguments) (*Result, *ToolError) {
	call := ToolCall{Type: ToolTypeFunction, Function: ToolCallFunction{Name: name}}
	return inv.invoke(ctx, call, args)
}

// InvokeCall decodes the call's serialized arguments and runs it.
func (inv *Invoker) InvokeCall(ctx context.Context, call ToolCall) (*Result, *ToolError) {
	args := Arguments{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return nil, newToolError(call, KindInvalidArguments, fmt.Errorf("arguments are not a JSON object: %w", err))
		}
	}
	return inv.invoke(ctx, call, args)
}

func (inv *Invoker) invoke(ctx context.Context, call ToolCall, args Arguments) (*Result, *ToolError) {
	tool, err := inv.registry.Resolve(call.Function.Name)
	if err != nil {
		// Not recorded: the name comes from the client and has no profile to update.
		return nil, newToolError(call, KindToolNotFound, fmt.Errorf("tool '%s' not found", call.Function.Name))
	}

	if err := checkArguments(tool.Definition().Function.Parameters, args); err != nil {
		terr := newToolError(call, KindInvalidArguments, err)
		inv.recordFailure(ctx, terr)
		return nil, terr
	}

	log.Printf("🛠️ Executing tool: %s (ID: %s) with args: %v", call.Function.Name, call.ID, map[string]any(args))
	start := time.Now()
	out, err := safeExecute(ctx, tool, args)
	if err != nil {
		terr := newToolError(call, KindToolExecutionFailed, err)
		log.Printf("❌ Tool %s failed: %v", call.Function.Name, err)
		inv.recordFailure(ctx, terr)
		return nil, terr
	}

	payload, err := json.Marshal(out)
	if err != nil {
		terr := newToolError(call, KindToolExecutionFailed, fmt.Errorf("result is not JSON-serializable: %w", err))
		inv.recordFailure(ctx, terr)
		return nil, terr
	}

	latency := time.Since(start)
	log.Printf("✅ Tool %s finished in %s", call.Function.Name, latency)
	if inv.recorder != nil {
		inv.recorder.RecordSuccess(ctx, call.Function.Name, latency)
	}
	return &Result{ToolCallID: call.ID, ToolName: call.Function.Name, Payload: payload}, nil
}

func (inv *Invoker) recordFailure(ctx context.Context, terr *ToolError) {
	if inv.recorder != nil {
		inv.recorder.RecordFailure(ctx, terr.ToolName, terr.Kind)
	}
}

// safeExecute runs the tool body and converts a panic into an error.
func safeExecute(ctx context.Context, tool ToolExecutor, args Arguments) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return tool.Execute(ctx, args)
}

// checkArguments verifies required parameters are present and that declared
// primitive types match what JSON decoding produced.
func checkArguments(schema JSONSchema, args Arguments) error {
	for _, name := range schema.Required {
		if v, ok := args[name]; !ok || v == nil {
			return fmt.Errorf("missing required argument '%s'", name)
		}
	}
	for name, v := range args {
		prop, ok := schema.Properties[name]
		if !ok || prop == nil || v == nil {
			continue
		}
		if !matchesType(prop.Type, v) {
			return fmt.Errorf("argument '%s' must be of type %s", name, prop.Type)
		}
	}
	return nil
}

func matchesType(typ string, v any) bool {
	switch typ {
	case "string":
		_, ok := v.(string)
		return ok
	case "number", "integer":
		switch v.(type) {
		case float64, int:
			return true
		}
		return false
	case "boolean":
		_, ok := v.(bool)
		return ok
	default:
		return true
	}
}
