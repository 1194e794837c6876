// Package inference defines the boundary to the LLM completion service.
//
// A completion either produces final text or requests tool calls. The tool
// sub-protocol is modeled as a two-step exchange: the caller sends a
// prompt with declared tools, and if the response carries tool calls, it
// sends a follow-up request with the assistant's tool-call turn and the
// tool results appended. Vitalog ships two backends: OpenAI (cloud SDK)
// and Local (any OpenAI-compatible chat endpoint, e.g. Ollama).
package inference

import (
	"context"
	"encoding/json"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is one conversation turn after the system prompt.
type Turn struct {
	Role    Role
	Content string

	// ToolCallID links a RoleTool turn to the call it answers.
	ToolCallID string

	// Native, when set, is the backend's own representation of this turn
	// and takes precedence over the fields above. It is used to replay an
	// assistant tool-call turn exactly as the provider produced it.
	Native any
}

// UserTurn builds a plain user turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// ToolResultTurn builds a tool-result turn answering the given call.
func ToolResultTurn(callID, payload string) Turn {
	return Turn{Role: RoleTool, Content: payload, ToolCallID: callID}
}

// ToolCall is a model-issued request to invoke a declared tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Tool declares a callable function to the model.
type Tool struct {
	Name        string
	Description string

	// Parameters is a JSON-schema object describing the arguments.
	Parameters map[string]any
}

// Request is one completion request.
type Request struct {
	System string
	Turns  []Turn

	// JSONOnly asks the backend to constrain output to a JSON object where
	// the provider supports it. The prompt carries the same instruction;
	// conformance is validated after the fact either way.
	JSONOnly bool

	Tools []Tool
}

// Response is the outcome of one completion call: final text, or pending
// tool calls when the model wants a tool result before answering.
type Response struct {
	Text      string
	ToolCalls []ToolCall

	// assistantTurn is the provider-native turn that requested ToolCalls.
	assistantTurn any
}

// AssistantTurn returns the tool-call turn to replay on the follow-up
// request, as a Turn.
func (r *Response) AssistantTurn() Turn {
	return Turn{Role: RoleAssistant, Content: r.Text, Native: r.assistantTurn}
}

// NewToolCallResponse builds a Response that carries pending tool calls.
// Backends use this to attach their native assistant turn.
func NewToolCallResponse(calls []ToolCall, nativeTurn any) *Response {
	return &Response{ToolCalls: calls, assistantTurn: nativeTurn}
}

// Client is the interface every inference backend implements.
type Client interface {
	// Name returns the backend identifier (e.g., "openai", "local").
	Name() string

	// Complete performs a single completion call. It never loops over tool
	// calls itself; bounding the tool round-trips is the caller's job.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Close releases any resources held by the backend.
	Close() error
}
