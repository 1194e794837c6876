package interpret

import (
	"context"
	"log/slog"

	"github.com/vitalog/vitalog/internal/entry"
	"github.com/vitalog/vitalog/internal/inference"
	"github.com/vitalog/vitalog/internal/prompt"
	"github.com/vitalog/vitalog/internal/schema"
	"github.com/vitalog/vitalog/internal/vocab"
)

// InterpretWorkoutSet converts a workout-set transcript into a structured
// set record. Single completion call, no tool use.
func (s *Service) InterpretWorkoutSet(ctx context.Context, transcript string) (*entry.WorkoutSetInterpretation, error) {
	p := prompt.WorkoutSet(transcript)
	resp, err := s.client.Complete(ctx, inference.Request{
		System:   p.System,
		Turns:    []inference.Turn{inference.UserTurn(p.User)},
		JSONOnly: true,
	})
	if err != nil {
		return nil, entry.WrapError(entry.ErrInferenceUnavailable, err, "workout interpretation call failed")
	}

	value, derr := decodeOutput(resp.Text)
	if derr != nil {
		return nil, derr
	}
	set, violations := schema.ValidateWorkoutSet(value)
	if len(violations) > 0 {
		return nil, entry.SchemaError(violations)
	}

	set.ExerciseName = vocab.Normalize(set.ExerciseName)

	slog.Info("workout set interpreted", "exercise", set.ExerciseName, "type", set.ExerciseType, "confidence", set.Confidence)
	return &set, nil
}
