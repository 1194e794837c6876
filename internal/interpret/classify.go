package interpret

import (
	"context"
	"log/slog"

	"github.com/vitalog/vitalog/internal/entry"
	"github.com/vitalog/vitalog/internal/inference"
	"github.com/vitalog/vitalog/internal/prompt"
	"github.com/vitalog/vitalog/internal/schema"
)

// ClassifyIntent labels a transcript with one of the five intents,
// opportunistically extracting weight/step values. The result routes the
// entry and is never persisted.
func (s *Service) ClassifyIntent(ctx context.Context, transcript string) (*entry.IntentClassification, error) {
	p := prompt.Classifier(transcript)
	resp, err := s.client.Complete(ctx, inference.Request{
		System:   p.System,
		Turns:    []inference.Turn{inference.UserTurn(p.User)},
		JSONOnly: true,
	})
	if err != nil {
		return nil, entry.WrapError(entry.ErrInferenceUnavailable, err, "classification call failed")
	}

	value, derr := decodeOutput(resp.Text)
	if derr != nil {
		return nil, derr
	}
	cls, violations := schema.ValidateClassification(value)
	if len(violations) > 0 {
		return nil, entry.SchemaError(violations)
	}

	slog.Debug("intent classified", "intent", cls.Intent, "confidence", cls.Confidence)
	return &cls, nil
}
