// In file: internal/tools/transportation_tool.go
package tools

import "context"

// --- Transportation Expert Tool ---

const TransportationToolName = "transportation-expert"

// TransportOption is one way of getting around and what it costs.
type TransportOption struct {
	Type string `json:"type"`
	Cost string `json:"cost"`
}

// TransportationTool lists local transport options from a fixed table.
type TransportationTool struct {
	options []TransportOption
}

var _ ToolExecutor = (*TransportationTool)(nil)

func NewTransportationTool() *TransportationTool {
	return &TransportationTool{
		options: []TransportOption{
			{Type: "Metro", Cost: "€1.90 per ticket"},
			{Type: "Bus", Cost: "€2.00 per ticket"},
			{Type: "Taxi", Cost: "€1.06 per km + €2.60 pickup fee"},
		},
	}
}

func (tt *TransportationTool) Definition() Tool {
	return NewFunctionTool(
		TransportationToolName,
		"Lists public and private transportation options with their costs",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"city": {
					Type:        "string",
					Description: "The city to list transportation options for",
				},
			},
		},
	)
}

func (tt *TransportationTool) Execute(_ context.Context, _ Arguments) (any, error) {
	return map[string][]TransportOption{"options": tt.options}, nil
}
