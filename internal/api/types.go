// In file: internal/api/types.go

// Package api defines the public wire types of the gateway: the inbound
// tool-run request, the chat-completion envelope, and the error body.
// Keeping them in one place lets the handler, the planner, and the notifier
// client agree on a single JSON shape.
package api

import (
	"encoding/json"

	"github.com/dileep-u-k/weather-agent/internal/tools"
)

// Role represents the originator of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single read-only conversation message posted by a client.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// RunToolRequest is the body of both POST /run-tool and POST /api/v1/chat/completions.
// Config is accepted for compatibility with callers that send runner options; it is not interpreted.
type RunToolRequest struct {
	Model    string          `json:"model,omitempty"`
	Messages []Message       `json:"messages"`
	Tools    []tools.Tool    `json:"tools"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// =================================================================================
// Chat Completion Envelope
// =================================================================================

const (
	ObjectChatCompletion   = "chat.completion"
	FinishReasonToolCalls  = "tool_calls"
	ToolCallIDPrefix       = "call_"
	ChatCompletionIDPrefix = "chatcmpl-"
)

// ChatCompletion mirrors the response shape of conversational-AI APIs so a tool
// decision can be returned as if a language model had produced it.
type ChatCompletion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
	// ToolOutputs carries the results of the tool calls the gateway already executed.
	ToolOutputs []ToolOutput `json:"tool_outputs,omitempty"`
}

// Choice is one candidate completion.
type Choice struct {
	Index        int              `json:"index"`
	Message      AssistantMessage `json:"message"`
	FinishReason string           `json:"finish_reason"`
}

// AssistantMessage is the model-side message of a choice. Content is a pointer
// so an elided reasoning step serializes as JSON null.
type AssistantMessage struct {
	Role      Role             `json:"role"`
	Content   *string          `json:"content"`
	ToolCalls []tools.ToolCall `json:"tool_calls,omitempty"`
}

// ToolOutput pairs an executed tool call with its serialized payload.
type ToolOutput struct {
	ToolCallID string          `json:"tool_call_id"`
	Output     json.RawMessage `json:"output"`
}

// Usage holds token counters. The planner stub never consumes tokens, so all are zero.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind,omitempty"`
	Stack []string `json:"stack,omitempty"`
}
