// In file: internal/tools/attraction_tool.go
package tools

import "context"

// --- Attraction Expert Tool ---

const AttractionToolName = "attraction-expert"

// AttractionTool suggests sights to visit. It answers from a fixed list until a
// real points-of-interest provider is plugged in behind the same schema.
type AttractionTool struct {
	attractions []string
}

var _ ToolExecutor = (*AttractionTool)(nil)

func NewAttractionTool() *AttractionTool {
	return &AttractionTool{
		attractions: []string{"Eiffel Tower", "Louvre Museum", "Notre-Dame Cathedral"},
	}
}

func (at *AttractionTool) Definition() Tool {
	return NewFunctionTool(
		AttractionToolName,
		"Suggests popular tourist attractions in a city",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"city": {
					Type:        "string",
					Description: "The city to find attractions in",
				},
			},
		},
	)
}

func (at *AttractionTool) Execute(_ context.Context, _ Arguments) (any, error) {
	return map[string][]string{"attractions": at.attractions}, nil
}
