package interpret

import (
	"context"
	"log/slog"

	"github.com/vitalog/vitalog/internal/entry"
	"github.com/vitalog/vitalog/internal/inference"
	"github.com/vitalog/vitalog/internal/prompt"
	"github.com/vitalog/vitalog/internal/schema"
	"github.com/vitalog/vitalog/internal/tools"
)

// InterpretMeal converts a meal transcript into a structured meal record.
//
// At most one tool round-trip is performed: if the first completion
// requests tool calls, only the first call is executed; any further calls
// in the same response are answered with a refusal payload so the
// follow-up request stays well-formed. If the model requests a tool again
// after the round-trip, that request is ignored and the raw text is
// parsed as-is.
func (s *Service) InterpretMeal(ctx context.Context, userID, transcript string, ectx entry.Context) (*entry.MealInterpretation, error) {
	logger := slog.With("user_id", userID, "task", "meal")

	p := prompt.Meal(transcript, ectx)
	req := inference.Request{
		System:   p.System,
		Turns:    []inference.Turn{inference.UserTurn(p.User)},
		JSONOnly: true,
		Tools:    tools.Specs(),
	}

	resp, err := s.client.Complete(ctx, req)
	if err != nil {
		return nil, entry.WrapError(entry.ErrInferenceUnavailable, err, "meal interpretation call failed")
	}

	if len(resp.ToolCalls) > 0 {
		call := resp.ToolCalls[0]
		logger.Debug("model requested tool", "tool", call.Name, "extra_calls", len(resp.ToolCalls)-1)

		payload, err := s.tools.Execute(ctx, userID, call, ectx)
		if err != nil {
			return nil, err
		}

		req.Turns = append(req.Turns, resp.AssistantTurn(), inference.ToolResultTurn(call.ID, payload))
		for _, extra := range resp.ToolCalls[1:] {
			req.Turns = append(req.Turns, inference.ToolResultTurn(extra.ID,
				`{"error": "only one tool call is honored per interpretation"}`))
		}

		resp, err = s.client.Complete(ctx, req)
		if err != nil {
			return nil, entry.WrapError(entry.ErrInferenceUnavailable, err, "meal follow-up call failed")
		}
		if len(resp.ToolCalls) > 0 {
			logger.Debug("model requested a second tool round-trip, ignoring", "calls", len(resp.ToolCalls))
		}
	}

	value, derr := decodeOutput(resp.Text)
	if derr != nil {
		return nil, derr
	}
	meal, violations := schema.ValidateMeal(value)
	if len(violations) > 0 {
		return nil, entry.SchemaError(violations)
	}

	logger.Info("meal interpreted", "meal_type", meal.MealType, "calories", meal.Calories, "confidence", meal.Confidence)
	return &meal, nil
}
