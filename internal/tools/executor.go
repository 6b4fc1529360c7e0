// In file: internal/tools/executor.go
package tools

import (
	"context"
	"fmt"
)

// ToolExecutor defines the standard interface for any tool that can be
// registered with the gateway.
//
// A tool is a capability: its schema plus a body. Real implementations can
// replace the mocked ones without the registry or the invoker noticing.
type ToolExecutor interface {
	// Definition returns the tool's schema, which is advertised to planners
	// so they understand the tool's capabilities, name, and arguments.
	Definition() Tool

	// Execute runs the tool body with the decoded arguments. The returned value
	// must be JSON-serializable; the invoker marshals it into the result payload.
	Execute(ctx context.Context, args Arguments) (any, error)
}

// Arguments is the decoded argument map of a tool call.
type Arguments map[string]any

// String returns the named argument as a string. Numbers and booleans are
// formatted; a missing or null argument reports false.
func (a Arguments) String(name string) (string, bool) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case float64, bool, int:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}
