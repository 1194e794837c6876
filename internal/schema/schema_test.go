package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalog/vitalog/internal/entry"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func violatedFields(violations []entry.FieldViolation) []string {
	fields := make([]string, len(violations))
	for i, v := range violations {
		fields[i] = v.Field
	}
	return fields
}

func TestValidateMeal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, violations := ValidateMeal(decode(t, `{
			"meal_type": "breakfast",
			"description": "two eggs and toast",
			"calories": 320,
			"confidence": 0.85,
			"assumptions": ["medium eggs"]
		}`))
		require.Empty(t, violations)
		assert.Equal(t, entry.MealBreakfast, got.MealType)
		assert.Equal(t, "two eggs and toast", got.Description)
		assert.Equal(t, 320, got.Calories)
		assert.InDelta(t, 0.85, got.Confidence, 1e-9)
		assert.Equal(t, []string{"medium eggs"}, got.Assumptions)
	})

	t.Run("unknown meal type is rejected, not defaulted", func(t *testing.T) {
		_, violations := ValidateMeal(decode(t, `{
			"meal_type": "brunch",
			"description": "pancakes",
			"calories": 500,
			"confidence": 0.9,
			"assumptions": []
		}`))
		require.Len(t, violations, 1)
		assert.Equal(t, "meal_type", violations[0].Field)
	})

	t.Run("every violation is reported", func(t *testing.T) {
		_, violations := ValidateMeal(decode(t, `{
			"meal_type": "brunch",
			"description": "",
			"calories": -10,
			"confidence": 1.5
		}`))
		assert.ElementsMatch(t,
			[]string{"meal_type", "description", "calories", "confidence", "assumptions"},
			violatedFields(violations))
	})

	t.Run("confidence out of range is never clamped", func(t *testing.T) {
		_, violations := ValidateMeal(decode(t, `{
			"meal_type": "lunch",
			"description": "salad",
			"calories": 200,
			"confidence": 1.01,
			"assumptions": []
		}`))
		require.Len(t, violations, 1)
		assert.Equal(t, "confidence", violations[0].Field)
	})

	t.Run("fractional calories rejected", func(t *testing.T) {
		_, violations := ValidateMeal(decode(t, `{
			"meal_type": "lunch",
			"description": "salad",
			"calories": 200.5,
			"confidence": 0.5,
			"assumptions": []
		}`))
		require.Len(t, violations, 1)
		assert.Equal(t, "calories", violations[0].Field)
	})

	t.Run("non-object input", func(t *testing.T) {
		_, violations := ValidateMeal(decode(t, `[1, 2, 3]`))
		require.Len(t, violations, 1)
		assert.Equal(t, "$", violations[0].Field)
	})
}

func TestValidateWorkoutSet(t *testing.T) {
	t.Run("valid resistance", func(t *testing.T) {
		got, violations := ValidateWorkoutSet(decode(t, `{
			"exercise_name": "Bench Press",
			"exercise_type": "resistance",
			"reps": 8,
			"weight_kg": 60,
			"duration_minutes": null,
			"notes": null,
			"confidence": 0.9,
			"assumptions": []
		}`))
		require.Empty(t, violations)
		require.NotNil(t, got.Reps)
		require.NotNil(t, got.WeightKg)
		assert.Equal(t, 8, *got.Reps)
		assert.InDelta(t, 60.0, *got.WeightKg, 1e-9)
		assert.Nil(t, got.DurationMinutes)
	})

	t.Run("valid cardio", func(t *testing.T) {
		got, violations := ValidateWorkoutSet(decode(t, `{
			"exercise_name": "Running",
			"exercise_type": "cardio",
			"reps": null,
			"weight_kg": null,
			"duration_minutes": 25,
			"notes": "easy pace",
			"confidence": 0.95,
			"assumptions": []
		}`))
		require.Empty(t, violations)
		assert.Nil(t, got.Reps)
		assert.Nil(t, got.WeightKg)
		require.NotNil(t, got.DurationMinutes)
		assert.Equal(t, 25, *got.DurationMinutes)
	})

	t.Run("cardio with reps violates exclusivity", func(t *testing.T) {
		_, violations := ValidateWorkoutSet(decode(t, `{
			"exercise_name": "Running",
			"exercise_type": "cardio",
			"reps": 10,
			"weight_kg": 20,
			"duration_minutes": 25,
			"notes": null,
			"confidence": 0.9,
			"assumptions": []
		}`))
		assert.ElementsMatch(t, []string{"reps", "weight_kg"}, violatedFields(violations))
	})

	t.Run("resistance with duration violates exclusivity", func(t *testing.T) {
		_, violations := ValidateWorkoutSet(decode(t, `{
			"exercise_name": "Squat",
			"exercise_type": "resistance",
			"reps": 5,
			"weight_kg": 100,
			"duration_minutes": 10,
			"notes": null,
			"confidence": 0.9,
			"assumptions": []
		}`))
		assert.ElementsMatch(t, []string{"duration_minutes"}, violatedFields(violations))
	})

	t.Run("unknown exercise type", func(t *testing.T) {
		_, violations := ValidateWorkoutSet(decode(t, `{
			"exercise_name": "Yoga",
			"exercise_type": "flexibility",
			"reps": null,
			"weight_kg": null,
			"duration_minutes": 30,
			"notes": null,
			"confidence": 0.8,
			"assumptions": []
		}`))
		assert.ElementsMatch(t, []string{"exercise_type"}, violatedFields(violations))
	})
}

func TestValidateClassification(t *testing.T) {
	t.Run("valid steps", func(t *testing.T) {
		got, violations := ValidateClassification(decode(t, `{
			"intent": "steps",
			"confidence": 0.97,
			"weight_kg": null,
			"steps": 10000,
			"assumptions": ["10k expanded to 10,000"]
		}`))
		require.Empty(t, violations)
		assert.Equal(t, entry.IntentSteps, got.Intent)
		require.NotNil(t, got.Steps)
		assert.Equal(t, 10000, *got.Steps)
		assert.Nil(t, got.WeightKg)
	})

	t.Run("weight value on non-weight intent", func(t *testing.T) {
		_, violations := ValidateClassification(decode(t, `{
			"intent": "meal",
			"confidence": 0.8,
			"weight_kg": 80.5,
			"steps": null,
			"assumptions": []
		}`))
		assert.ElementsMatch(t, []string{"weight_kg"}, violatedFields(violations))
	})

	t.Run("unknown intent", func(t *testing.T) {
		_, violations := ValidateClassification(decode(t, `{
			"intent": "sleep",
			"confidence": 0.8,
			"weight_kg": null,
			"steps": null,
			"assumptions": []
		}`))
		assert.ElementsMatch(t, []string{"intent"}, violatedFields(violations))
	})
}
