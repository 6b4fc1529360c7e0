// In file: internal/tools/types.go

// Package tools defines the data structures for function calling (tool use),
// the registry that owns the gateway's tool implementations, and the invoker
// that executes a tool call and turns every outcome into a value.
//
// The wire types follow the common OpenAI-style "function" tool shape, which is
// what clients post in the `tools` array and what the planner emits in an
// assistant message's `tool_calls`.
package tools

// ToolTypeFunction is the standard type for function-based tools.
const ToolTypeFunction = "function"

// Tool defines the schema of a function that can be advertised to a planner.
type Tool struct {
	// Type specifies the type of tool, which is almost always "function".
	Type string `json:"type"`
	// Function holds the detailed definition of the function.
	Function Function `json:"function"`
}

// Function defines the name, description, and parameters of a callable tool.
type Function struct {
	// Name is unique within a registry (e.g., "get-weather").
	Name string `json:"name"`
	// Description explains what the function does; a planner uses it to decide when to call the tool.
	Description string `json:"description,omitempty"`
	// Parameters defines the arguments the function accepts, structured as a JSON Schema.
	Parameters JSONSchema `json:"parameters"`
}

// JSONSchema is a structured subset of JSON Schema, enough to describe flat
// argument objects.
type JSONSchema struct {
	// Type defines the data type for a schema node (e.g., "object", "string", "number").
	// For the top-level parameters object, this should always be "object".
	Type string `json:"type,omitempty"`
	// Description explains what a specific parameter is for.
	Description string `json:"description,omitempty"`
	// Properties maps parameter names to their own schema nodes.
	Properties map[string]*JSONSchema `json:"properties,omitempty"`
	// Required is a list of parameter names that are mandatory for a function call.
	Required []string `json:"required,omitempty"`
}

// ToolCall represents a decision to execute a specific tool with given arguments.
// The planner creates it and the invoker consumes it.
type ToolCall struct {
	// ID is an opaque correlation token used to match a result back to its call.
	ID string `json:"id"`
	// Type indicates the type of tool being called, which is almost always "function".
	Type string `json:"type"`
	// Function contains the name and arguments for the function to execute.
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction holds the name and arguments of a function call.
type ToolCallFunction struct {
	Name string `json:"name"`
	// Arguments is a JSON string containing the serialized argument map.
	Arguments string `json:"arguments"`
}

// NewFunctionTool is a helper function that simplifies the creation of a new Tool.
// It reduces boilerplate and ensures the tool is created with the correct "function" type.
func NewFunctionTool(name, description string, parameters JSONSchema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: Function{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
