// In file: internal/tools/registry.go
package tools

import (
	"fmt"
	"log"
)

// Registry holds every tool the gateway can execute, keyed by name.
//
// It is populated once at start-up and only read afterwards, so concurrent
// Resolve and ListSchemas calls need no locking as long as registration
// completes before the server starts accepting requests.
type Registry struct {
	tools map[string]ToolExecutor
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]ToolExecutor),
	}
}

// Register adds a new tool to the registry after validating its schema.
func (r *Registry) Register(tool ToolExecutor) error {
	def := tool.Definition()
	if err := validateDefinition(def); err != nil {
		return err
	}
	name := def.Function.Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: '%s'", ErrDuplicateTool, name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	log.Printf("🧰 Registered tool '%s'", name)
	return nil
}

// MustRegister is Register for start-up wiring, where a bad tool is a programming error.
func (r *Registry) MustRegister(tools ...ToolExecutor) {
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the tool registered under name.
func (r *Registry) Resolve(name string) (ToolExecutor, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrToolNotFound, name)
	}
	return tool, nil
}

// ListSchemas returns the registered schemas in insertion order.
func (r *Registry) ListSchemas() []Tool {
	defs := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

func validateDefinition(def Tool) error {
	fn := def.Function
	if fn.Name == "" {
		return fmt.Errorf("%w: tool name is empty", ErrInvalidSchema)
	}
	if def.Type != ToolTypeFunction {
		return fmt.Errorf("%w: tool '%s' has type '%s', want '%s'", ErrInvalidSchema, fn.Name, def.Type, ToolTypeFunction)
	}
	if fn.Parameters.Type != "object" {
		return fmt.Errorf("%w: parameters of '%s' must be an object", ErrInvalidSchema, fn.Name)
	}
	for _, req := range fn.Parameters.Required {
		if _, ok := fn.Parameters.Properties[req]; !ok {
			return fmt.Errorf("%w: required parameter '%s' of '%s' is not declared", ErrInvalidSchema, req, fn.Name)
		}
	}
	return nil
}
