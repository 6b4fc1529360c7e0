// In file: internal/tools/errors.go
package tools

import (
	"errors"
	"fmt"
)

var (
	ErrToolNotFound        = errors.New("tool not found")
	ErrDuplicateTool       = errors.New("tool already registered")
	ErrInvalidSchema       = errors.New("invalid tool schema")
	ErrInvalidArguments    = errors.New("invalid tool arguments")
	ErrToolExecutionFailed = errors.New("tool execution failed")
)

// Kind is a short machine-readable classification of a tool failure.
type Kind string

const (
	KindToolNotFound        Kind = "tool_not_found"
	KindInvalidArguments    Kind = "invalid_arguments"
	KindToolExecutionFailed Kind = "tool_execution_failed"
)

func (k Kind) sentinel() error {
	switch k {
	case KindToolNotFound:
		return ErrToolNotFound
	case KindInvalidArguments:
		return ErrInvalidArguments
	default:
		return ErrToolExecutionFailed
	}
}

// ToolError is the failure value of a single invocation.
// It unwraps to both its kind sentinel and the underlying cause, so callers
// can test either with errors.Is.
type ToolError struct {
	ToolCallID string
	ToolName   string
	Kind       Kind
	Message    string
	Err        error
}

func (e *ToolError) Error() string {
	if e.Kind == KindToolExecutionFailed {
		return fmt.Sprintf("tool '%s' failed: %s", e.ToolName, e.Message)
	}
	return e.Message
}

func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func newToolError(call ToolCall, kind Kind, err error) *ToolError {
	return &ToolError{
		ToolCallID: call.ID,
		ToolName:   call.Function.Name,
		Kind:       kind,
		Message:    err.Error(),
		Err:        err,
	}
}
