// Package local implements the inference Client against any
// OpenAI-compatible chat endpoint (Ollama, vLLM, llama.cpp server).
//
// The wire protocol is hand-built rather than SDK-backed so the endpoint
// URL can point anywhere; tool calls follow the same chat-completions
// shapes the compatible servers implement.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vitalog/vitalog/internal/config"
	"github.com/vitalog/vitalog/internal/inference"
)

const defaultTimeout = 120 * time.Second

// Client calls a self-hosted OpenAI-compatible chat endpoint.
type Client struct {
	endpoint string
	model    string
	client   *http.Client
}

// New creates a new local inference client from config.
func New(cfg config.LocalConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: cfg.ChatEndpoint,
		model:    cfg.Model,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name returns the backend identifier.
func (c *Client) Name() string { return "local" }

// Complete performs a single chat completion call.
func (c *Client) Complete(ctx context.Context, req inference.Request) (*inference.Response, error) {
	messages := make([]chatMessage, 0, len(req.Turns)+1)
	messages = append(messages, chatMessage{Role: "system", Content: strings.TrimSpace(req.System)})

	for _, turn := range req.Turns {
		if turn.Native != nil {
			native, ok := turn.Native.(chatMessage)
			if !ok {
				return nil, fmt.Errorf("unexpected native turn type %T", turn.Native)
			}
			messages = append(messages, native)
			continue
		}
		switch turn.Role {
		case inference.RoleUser:
			messages = append(messages, chatMessage{Role: "user", Content: turn.Content})
		case inference.RoleAssistant:
			messages = append(messages, chatMessage{Role: "assistant", Content: turn.Content})
		case inference.RoleTool:
			messages = append(messages, chatMessage{Role: "tool", Content: turn.Content, ToolCallID: turn.ToolCallID})
		default:
			return nil, fmt.Errorf("unknown turn role %q", turn.Role)
		}
	}

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.2,
	}
	if req.JSONOnly && len(req.Tools) == 0 {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	for _, t := range req.Tools {
		reqBody.Tools = append(reqBody.Tools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshalling chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("chat failed (status %d): %s", resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from chat API")
	}

	msg := chatResp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		calls := make([]inference.ToolCall, 0, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			calls = append(calls, inference.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: json.RawMessage(tc.Function.Arguments),
			})
		}
		assistant := chatMessage{Role: "assistant", Content: msg.Content, ToolCalls: msg.ToolCalls}
		slog.Debug("local backend requested tools", "calls", len(calls))
		return inference.NewToolCallResponse(calls, assistant), nil
	}

	return &inference.Response{Text: msg.Content}, nil
}

// Close is a no-op for the local client.
func (c *Client) Close() error { return nil }

// --- Wire types (OpenAI-compatible chat completions) ---

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Tools          []chatTool      `json:"tools,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

type chatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function chatCallFunction `json:"function"`
}

type chatCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string         `json:"content"`
			ToolCalls []chatToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}
