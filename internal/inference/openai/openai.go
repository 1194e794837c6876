// Package openai implements the inference Client using the official
// OpenAI SDK.
//
// Tool declarations use strict function definitions, and a tool-call turn
// is replayed on the follow-up request exactly as the SDK produced it.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"

	"github.com/vitalog/vitalog/internal/config"
	"github.com/vitalog/vitalog/internal/inference"
)

const defaultTimeout = 60 * time.Second

// Client calls the OpenAI Chat Completions API.
type Client struct {
	client openaigo.Client
	model  string
}

// New creates a new OpenAI inference client from config.
func New(cfg config.OpenAIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("inference.openai.api_key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithRequestTimeout(timeout),
		// At most one inference attempt per pipeline step; transport-level
		// retries would blur that bound.
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client: openaigo.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Name returns the backend identifier.
func (c *Client) Name() string { return "openai" }

// Complete performs a single chat completion call.
func (c *Client) Complete(ctx context.Context, req inference.Request) (*inference.Response, error) {
	messages := make([]openaigo.ChatCompletionMessageParamUnion, 0, len(req.Turns)+1)
	messages = append(messages, openaigo.SystemMessage(strings.TrimSpace(req.System)))

	for _, turn := range req.Turns {
		if turn.Native != nil {
			native, ok := turn.Native.(openaigo.ChatCompletionMessageParamUnion)
			if !ok {
				return nil, fmt.Errorf("unexpected native turn type %T", turn.Native)
			}
			messages = append(messages, native)
			continue
		}
		switch turn.Role {
		case inference.RoleUser:
			messages = append(messages, openaigo.UserMessage(turn.Content))
		case inference.RoleAssistant:
			messages = append(messages, openaigo.AssistantMessage(turn.Content))
		case inference.RoleTool:
			messages = append(messages, openaigo.ToolMessage(turn.Content, turn.ToolCallID))
		default:
			return nil, fmt.Errorf("unknown turn role %q", turn.Role)
		}
	}

	params := openaigo.ChatCompletionNewParams{
		Model:    openaigo.ChatModel(c.model),
		Messages: messages,
	}
	if len(req.Tools) > 0 {
		tools := make([]openaigo.ChatCompletionToolUnionParam, 0, len(req.Tools))
		for _, t := range req.Tools {
			tools = append(tools, openaigo.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: param.NewOpt(t.Description),
				Strict:      param.NewOpt(true),
				Parameters:  shared.FunctionParameters(t.Parameters),
			}))
		}
		params.Tools = tools
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		calls := make([]inference.ToolCall, 0, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			if strings.TrimSpace(tc.Type) != "function" {
				continue
			}
			call := tc.AsFunction()
			calls = append(calls, inference.ToolCall{
				ID:        tc.ID,
				Name:      strings.TrimSpace(call.Function.Name),
				Arguments: json.RawMessage(call.Function.Arguments),
			})
		}
		if len(calls) > 0 {
			return inference.NewToolCallResponse(calls, msg.ToParam()), nil
		}
	}

	return &inference.Response{Text: msg.Content}, nil
}

// Close is a no-op for the OpenAI client.
func (c *Client) Close() error { return nil }
