package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vitalog/vitalog/internal/entry"
)

func TestMealContextPrefix(t *testing.T) {
	ref := time.Date(2025, time.March, 3, 8, 15, 0, 0, time.UTC) // a Monday

	t.Run("with meal type hint", func(t *testing.T) {
		p := Meal("had two eggs", entry.Context{ReferenceTime: ref, MealTypeHint: entry.MealLunch})
		assert.Equal(t, "[Time: Monday, March 3 at 8:15 AM, Meal type: lunch] had two eggs", p.User)
	})

	t.Run("without meal type hint", func(t *testing.T) {
		p := Meal("had two eggs", entry.Context{ReferenceTime: ref})
		assert.Equal(t, "[Time: Monday, March 3 at 8:15 AM] had two eggs", p.User)
	})

	t.Run("afternoon formatting", func(t *testing.T) {
		p := Meal("salad", entry.Context{ReferenceTime: time.Date(2025, time.March, 3, 13, 5, 0, 0, time.UTC)})
		assert.Contains(t, p.User, "at 1:05 PM]")
	})
}

func TestMealSystemPrompt(t *testing.T) {
	p := Meal("pasta", entry.Context{ReferenceTime: time.Now()})
	assert.Contains(t, p.System, "search_previous_meals")
	assert.Contains(t, p.System, "nearest 10 under 500")
	assert.Contains(t, p.System, "nearest 50 at or above 500")
	assert.Contains(t, p.System, `"meal_type"`)
}

func TestWorkoutSetPrompt(t *testing.T) {
	p := WorkoutSet("bench press 3x8 at 60kg")
	assert.Equal(t, "bench press 3x8 at 60kg", p.User)
	assert.Contains(t, p.System, "Bench Press")
	assert.Contains(t, p.System, "0.453592")
	assert.Contains(t, p.System, "nearest 0.5 kg")
	assert.Contains(t, p.System, "empty barbell weighs 20 kg")
}

func TestClassifierPrompt(t *testing.T) {
	p := Classifier("steps today: 10k")
	assert.Equal(t, "steps today: 10k", p.User)
	for _, intent := range []string{"meal", "workout_set", "weight", "steps", "question"} {
		assert.Contains(t, p.System, `"`+intent+`"`)
	}
	assert.Contains(t, p.System, `"10k" means 10000`)
	assert.Contains(t, p.System, "0.453592")
}

func TestQuestionPrompt(t *testing.T) {
	p := Question("how much protein did I eat on Monday?", "Meals:\n- Monday breakfast: eggs (320 kcal)")
	assert.Contains(t, p.System, "ONLY the data provided")
	assert.Contains(t, p.User, "Question: how much protein did I eat on Monday?")
	assert.Contains(t, p.User, "Monday breakfast: eggs")
}
