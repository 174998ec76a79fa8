package llm

import (
	"context"
	"fmt"
)

type Provider interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// Request is a single non-streaming chat-completion call.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
	Tools       []Tool
	ToolChoice  string
}

// Completion is the assistant turn returned by the model. A turn carries
// text content, tool calls, or both.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// APIError is a non-2xx response from an upstream model API. The status and
// body are preserved so callers can forward them.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}
