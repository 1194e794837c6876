package interpret

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vitalog/vitalog/internal/entry"
)

// InterpretEntry is the top-level entry point consumed by the HTTP layer.
// It classifies the transcript and dispatches to the matching path. The
// state machine is terminal on the first success or failure; there is no
// backtracking between intents and no downgrading of errors.
func (s *Service) InterpretEntry(ctx context.Context, userID, transcript, timezone string) (*entry.Result, error) {
	logger := slog.With("user_id", userID)

	cls, err := s.ClassifyIntent(ctx, transcript)
	if err != nil {
		return nil, err
	}
	logger.Info("entry classified", "intent", cls.Intent, "confidence", cls.Confidence)

	ectx := entry.Context{Timezone: timezone}

	// The classifier's own schema already rejects unknown intents; this
	// guard keeps dispatch total regardless.
	if !cls.Intent.Known() {
		return nil, entry.NewError(entry.ErrUnsupportedIntent, "classifier returned unsupported intent %q", cls.Intent)
	}

	switch cls.Intent {
	case entry.IntentMeal:
		meal, err := s.InterpretMeal(ctx, userID, transcript, ectx)
		if err != nil {
			return nil, err
		}
		return &entry.Result{
			Intent:      entry.IntentMeal,
			Payload:     meal,
			SystemDraft: fmt.Sprintf("Logged %s · %d kcal", meal.Description, meal.Calories),
		}, nil

	case entry.IntentWorkoutSet:
		set, err := s.InterpretWorkoutSet(ctx, transcript)
		if err != nil {
			return nil, err
		}
		return &entry.Result{
			Intent:      entry.IntentWorkoutSet,
			Payload:     set,
			SystemDraft: workoutDraft(set),
		}, nil

	case entry.IntentWeight:
		if cls.WeightKg == nil {
			return nil, entry.NewError(entry.ErrExtractionIncomplete, "weight intent without an extractable value")
		}
		return &entry.Result{
			Intent:      entry.IntentWeight,
			Payload:     &entry.MetricValue{WeightKg: cls.WeightKg},
			SystemDraft: fmt.Sprintf("Logged weight · %.1f kg", *cls.WeightKg),
		}, nil

	case entry.IntentSteps:
		if cls.Steps == nil {
			return nil, entry.NewError(entry.ErrExtractionIncomplete, "steps intent without an extractable value")
		}
		return &entry.Result{
			Intent:      entry.IntentSteps,
			Payload:     &entry.MetricValue{Steps: cls.Steps},
			SystemDraft: fmt.Sprintf("Logged steps · %d", *cls.Steps),
		}, nil

	default: // entry.IntentQuestion
		answer, err := s.answerQuestion(ctx, userID, transcript, ectx)
		if err != nil {
			return nil, err
		}
		return &entry.Result{
			Intent:      entry.IntentQuestion,
			Payload:     answer,
			SystemDraft: answer.Answer,
		}, nil
	}
}

// workoutDraft renders the confirmation line for a workout set: duration
// for cardio, reps/weight for resistance, absent fields omitted.
func workoutDraft(set *entry.WorkoutSetInterpretation) string {
	parts := []string{set.ExerciseName}
	if set.ExerciseType == entry.ExerciseCardio {
		if set.DurationMinutes != nil {
			parts = append(parts, fmt.Sprintf("%d min", *set.DurationMinutes))
		}
	} else {
		if set.Reps != nil {
			parts = append(parts, fmt.Sprintf("%d reps", *set.Reps))
		}
		if set.WeightKg != nil {
			parts = append(parts, fmt.Sprintf("%.1f kg", *set.WeightKg))
		}
	}
	return "Logged " + strings.Join(parts, " · ")
}
