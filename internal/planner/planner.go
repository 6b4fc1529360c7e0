// In file: internal/planner/planner.go

// Package planner decides which tool to call for a conversation and packages
// the outcome as a chat completion.
//
// The decision itself lives behind the Policy interface. HeuristicPolicy is a
// placeholder that always picks the weather tool and pulls the city out of the
// last message; a model-backed policy can replace it without changes to the
// invoker or the HTTP handlers.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dileep-u-k/weather-agent/internal/api"
	"github.com/dileep-u-k/weather-agent/internal/tools"

	"github.com/google/uuid"
)

const DefaultModel = "heuristic-planner"

var (
	ErrInvalidPlannerInput = errors.New("invalid planner input")
	ErrNoMatchingTool      = errors.New("no matching tool")
)

// Policy selects exactly one tool call for a conversation.
type Policy interface {
	Select(messages []api.Message, available []tools.Tool) (*tools.ToolCall, error)
}

// =================================================================================
// Heuristic Policy
// =================================================================================

// HeuristicPolicy stands in for a language model: it always selects DefaultTool
// and passes the subject of the last message as the "city" argument.
type HeuristicPolicy struct {
	DefaultTool string
	newID       func() string
}

var _ Policy = (*HeuristicPolicy)(nil)

func NewHeuristicPolicy(defaultTool string) *HeuristicPolicy {
	if defaultTool == "" {
		defaultTool = tools.WeatherToolName
	}
	return &HeuristicPolicy{
		DefaultTool: defaultTool,
		newID:       func() string { return api.ToolCallIDPrefix + uuid.NewString() },
	}
}

func (hp *HeuristicPolicy) Select(messages []api.Message, available []tools.Tool) (*tools.ToolCall, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: messages must be a non-empty array", ErrInvalidPlannerInput)
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("%w: tools must be a non-empty array", ErrInvalidPlannerInput)
	}

	subject := ExtractSubject(messages[len(messages)-1].Content)

	var selected *tools.Tool
	for i := range available {
		if available[i].Function.Name == hp.DefaultTool {
			selected = &available[i]
			break
		}
	}
	if selected == nil {
		log.Printf("Available tools do not include '%s'", hp.DefaultTool)
		return nil, fmt.Errorf("%w: '%s' is not among the available tools", ErrNoMatchingTool, hp.DefaultTool)
	}

	arguments, err := json.Marshal(map[string]string{"city": subject})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool arguments: %w", err)
	}

	return &tools.ToolCall{
		ID:   hp.newID(),
		Type: tools.ToolTypeFunction,
		Function: tools.ToolCallFunction{
			Name:      selected.Function.Name,
			Arguments: string(arguments),
		},
	}, nil
}

// =================================================================================
// Planner
// =================================================================================

// Planner couples a Policy with the Invoker that executes its decisions.
type Planner struct {
	policy  Policy
	invoker *tools.Invoker
	model   string
	now     func() time.Time
	newID   func() string
}

func New(policy Policy, invoker *tools.Invoker, model string) *Planner {
	if model == "" {
		model = DefaultModel
	}
	return &Planner{
		policy:  policy,
		invoker: invoker,
		model:   model,
		now:     time.Now,
		newID:   func() string { return api.ChatCompletionIDPrefix + uuid.NewString() },
	}
}

// Plan returns the tool call the policy selects. Nothing is executed.
func (p *Planner) Plan(messages []api.Message, available []tools.Tool) (*tools.ToolCall, error) {
	return p.policy.Select(messages, available)
}

// Run plans and executes one tool call, returning the raw result.
// A failed invocation is returned as a *tools.ToolError.
func (p *Planner) Run(ctx context.Context, messages []api.Message, available []tools.Tool) (*tools.ToolCall, *tools.Result, error) {
	call, err := p.Plan(messages, available)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("🧭 Planned tool call %s -> %s(%s)", call.ID, call.Function.Name, call.Function.Arguments)

	result, terr := p.invoker.InvokeCall(ctx, *call)
	if terr != nil {
		return call, nil, terr
	}
	return call, result, nil
}

// Complete runs the conversation through the planner and wraps the decision
// in a chat-completion envelope. model overrides the configured model label
// when non-empty. On failure no envelope is produced.
func (p *Planner) Complete(ctx context.Context, model string, messages []api.Message, available []tools.Tool) (*api.ChatCompletion, error) {
	call, result, err := p.Run(ctx, messages, available)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = p.model
	}

	return &api.ChatCompletion{
		ID:      p.newID(),
		Object:  api.ObjectChatCompletion,
		Created: p.now().UnixMilli(),
		Model:   model,
		Choices: []api.Choice{{
			Index: 0,
			Message: api.AssistantMessage{
				Role:      api.RoleAssistant,
				Content:   nil,
				ToolCalls: []tools.ToolCall{*call},
			},
			FinishReason: api.FinishReasonToolCalls,
		}},
		Usage:       api.Usage{},
		ToolOutputs: []api.ToolOutput{{ToolCallID: result.ToolCallID, Output: result.Payload}},
	}, nil
}
