// Package interpret implements the natural-language entry interpretation
// pipeline.
//
// A transcript flows classify → dispatch: meals and workout sets get their
// own extraction calls, weight and steps are taken from the classifier's
// opportunistic extraction, and questions are answered from a bounded
// window of history. Every failure is terminal for the request — nothing
// is retried and nothing is downgraded to a default value.
package interpret

import (
	"encoding/json"
	"strings"

	"github.com/vitalog/vitalog/internal/entry"
	"github.com/vitalog/vitalog/internal/inference"
	"github.com/vitalog/vitalog/internal/record"
	"github.com/vitalog/vitalog/internal/tools"
)

// Service orchestrates the interpretation pipeline. It holds no per-request
// state; one Service serves all concurrent requests.
type Service struct {
	client inference.Client
	store  record.Store
	tools  *tools.Executor
}

// New creates a Service over the given inference backend and record store.
func New(client inference.Client, store record.Store) *Service {
	return &Service{
		client: client,
		store:  store,
		tools:  tools.NewExecutor(store),
	}
}

// decodeOutput strips markdown code fences from model output and parses it
// as JSON. A parse failure is a terminal MalformedOutput error.
func decodeOutput(text string) (any, *entry.Error) {
	raw := stripFences(text)
	if raw == "" {
		return nil, entry.NewError(entry.ErrMalformedOutput, "model returned empty output")
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, entry.WrapError(entry.ErrMalformedOutput, err, "model output is not valid JSON")
	}
	return v, nil
}

// stripFences removes a ```json ... ``` (or plain ```) wrapper, which some
// models add despite instructions.
func stripFences(s string) string {
	raw := strings.TrimSpace(s)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	rest := strings.TrimPrefix(raw, "```")
	if i := strings.Index(rest, "\n"); i >= 0 {
		// Drop the language token line, if any.
		rest = rest[i+1:]
	} else {
		// Single-line fence like ```{"a":1}```.
		rest = strings.TrimPrefix(rest, "json")
	}
	if j := strings.LastIndex(rest, "```"); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}
