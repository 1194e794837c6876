// Package schema validates decoded model output against the fixed
// interpretation contracts.
//
// Model output is parsed as loose JSON first and then checked field by
// field. Every violated field is reported, not just the first, so callers
// can surface precise reasons. Out-of-range values are rejected, never
// clamped.
package schema

import (
	"fmt"
	"math"

	"github.com/vitalog/vitalog/internal/entry"
)

type checker struct {
	obj        map[string]any
	violations []entry.FieldViolation
}

func newChecker(v any) (*checker, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return &checker{violations: []entry.FieldViolation{
			{Field: "$", Reason: fmt.Sprintf("expected a JSON object, got %T", v)},
		}}, false
	}
	return &checker{obj: obj}, true
}

func (c *checker) fail(field, format string, args ...any) {
	c.violations = append(c.violations, entry.FieldViolation{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	})
}

// str returns a required string field.
func (c *checker) str(field string) (string, bool) {
	raw, ok := c.obj[field]
	if !ok || raw == nil {
		c.fail(field, "required string is missing")
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		c.fail(field, "expected a string, got %T", raw)
		return "", false
	}
	return s, true
}

// num returns a required numeric field.
func (c *checker) num(field string) (float64, bool) {
	raw, ok := c.obj[field]
	if !ok || raw == nil {
		c.fail(field, "required number is missing")
		return 0, false
	}
	f, ok := raw.(float64)
	if !ok {
		c.fail(field, "expected a number, got %T", raw)
		return 0, false
	}
	return f, true
}

// confidence validates the [0,1] closed-interval rule.
func (c *checker) confidence() (float64, bool) {
	f, ok := c.num("confidence")
	if !ok {
		return 0, false
	}
	if f < 0 || f > 1 {
		c.fail("confidence", "must be within [0,1], got %v", f)
		return 0, false
	}
	return f, true
}

// nonNegInt validates a required non-negative integer.
func (c *checker) nonNegInt(field string) (int, bool) {
	f, ok := c.num(field)
	if !ok {
		return 0, false
	}
	if f != math.Trunc(f) {
		c.fail(field, "expected an integer, got %v", f)
		return 0, false
	}
	if f < 0 {
		c.fail(field, "must be non-negative, got %v", f)
		return 0, false
	}
	return int(f), true
}

// optNonNegInt validates a nullable non-negative integer. The key may be
// absent or null; both decode to nil.
func (c *checker) optNonNegInt(field string) (*int, bool) {
	raw, ok := c.obj[field]
	if !ok || raw == nil {
		return nil, true
	}
	f, ok := raw.(float64)
	if !ok {
		c.fail(field, "expected a number or null, got %T", raw)
		return nil, false
	}
	if f != math.Trunc(f) {
		c.fail(field, "expected an integer, got %v", f)
		return nil, false
	}
	if f < 0 {
		c.fail(field, "must be non-negative, got %v", f)
		return nil, false
	}
	n := int(f)
	return &n, true
}

// optNonNegFloat validates a nullable non-negative float.
func (c *checker) optNonNegFloat(field string) (*float64, bool) {
	raw, ok := c.obj[field]
	if !ok || raw == nil {
		return nil, true
	}
	f, ok := raw.(float64)
	if !ok {
		c.fail(field, "expected a number or null, got %T", raw)
		return nil, false
	}
	if f < 0 {
		c.fail(field, "must be non-negative, got %v", f)
		return nil, false
	}
	return &f, true
}

// optStr validates a nullable string.
func (c *checker) optStr(field string) (*string, bool) {
	raw, ok := c.obj[field]
	if !ok || raw == nil {
		return nil, true
	}
	s, ok := raw.(string)
	if !ok {
		c.fail(field, "expected a string or null, got %T", raw)
		return nil, false
	}
	return &s, true
}

// strList validates a required list of strings. An empty list is valid.
func (c *checker) strList(field string) ([]string, bool) {
	raw, ok := c.obj[field]
	if !ok || raw == nil {
		c.fail(field, "required list is missing")
		return nil, false
	}
	items, ok := raw.([]any)
	if !ok {
		c.fail(field, "expected a list of strings, got %T", raw)
		return nil, false
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			c.fail(field, "element %d: expected a string, got %T", i, item)
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// ValidateMeal checks a decoded value against the meal interpretation
// contract. The returned violations list is empty on success.
func ValidateMeal(v any) (entry.MealInterpretation, []entry.FieldViolation) {
	c, ok := newChecker(v)
	if !ok {
		return entry.MealInterpretation{}, c.violations
	}

	var out entry.MealInterpretation

	if s, ok := c.str("meal_type"); ok {
		mt := entry.MealType(s)
		if !mt.Known() {
			c.fail("meal_type", "must be one of breakfast/lunch/dinner/snack, got %q", s)
		} else {
			out.MealType = mt
		}
	}

	if s, ok := c.str("description"); ok {
		if s == "" {
			c.fail("description", "must not be empty")
		} else {
			out.Description = s
		}
	}

	if n, ok := c.nonNegInt("calories"); ok {
		out.Calories = n
	}
	if f, ok := c.confidence(); ok {
		out.Confidence = f
	}
	if list, ok := c.strList("assumptions"); ok {
		out.Assumptions = list
	}

	if len(c.violations) > 0 {
		return entry.MealInterpretation{}, c.violations
	}
	return out, nil
}

// ValidateWorkoutSet checks a decoded value against the workout-set
// contract, including the cardio/resistance field-exclusivity rules.
func ValidateWorkoutSet(v any) (entry.WorkoutSetInterpretation, []entry.FieldViolation) {
	c, ok := newChecker(v)
	if !ok {
		return entry.WorkoutSetInterpretation{}, c.violations
	}

	var out entry.WorkoutSetInterpretation

	if s, ok := c.str("exercise_name"); ok {
		if s == "" {
			c.fail("exercise_name", "must not be empty")
		} else {
			out.ExerciseName = s
		}
	}

	if s, ok := c.str("exercise_type"); ok {
		et := entry.ExerciseType(s)
		if !et.Known() {
			c.fail("exercise_type", "must be resistance or cardio, got %q", s)
		} else {
			out.ExerciseType = et
		}
	}

	if n, ok := c.optNonNegInt("reps"); ok {
		out.Reps = n
	}
	if f, ok := c.optNonNegFloat("weight_kg"); ok {
		out.WeightKg = f
	}
	if n, ok := c.optNonNegInt("duration_minutes"); ok {
		out.DurationMinutes = n
	}
	if s, ok := c.optStr("notes"); ok {
		out.Notes = s
	}
	if f, ok := c.confidence(); ok {
		out.Confidence = f
	}
	if list, ok := c.strList("assumptions"); ok {
		out.Assumptions = list
	}

	switch out.ExerciseType {
	case entry.ExerciseCardio:
		if out.Reps != nil {
			c.fail("reps", "must be null for cardio")
		}
		if out.WeightKg != nil {
			c.fail("weight_kg", "must be null for cardio")
		}
	case entry.ExerciseResistance:
		if out.DurationMinutes != nil {
			c.fail("duration_minutes", "must be null for resistance")
		}
	}

	if len(c.violations) > 0 {
		return entry.WorkoutSetInterpretation{}, c.violations
	}
	return out, nil
}

// ValidateClassification checks a decoded value against the intent
// classification contract. Weight and steps values are accepted only for
// the matching intent.
func ValidateClassification(v any) (entry.IntentClassification, []entry.FieldViolation) {
	c, ok := newChecker(v)
	if !ok {
		return entry.IntentClassification{}, c.violations
	}

	var out entry.IntentClassification

	if s, ok := c.str("intent"); ok {
		in := entry.Intent(s)
		if !in.Known() {
			c.fail("intent", "must be one of meal/workout_set/weight/steps/question, got %q", s)
		} else {
			out.Intent = in
		}
	}

	if f, ok := c.confidence(); ok {
		out.Confidence = f
	}
	if f, ok := c.optNonNegFloat("weight_kg"); ok {
		out.WeightKg = f
	}
	if n, ok := c.optNonNegInt("steps"); ok {
		out.Steps = n
	}
	if list, ok := c.strList("assumptions"); ok {
		out.Assumptions = list
	}

	if out.Intent != entry.IntentWeight && out.WeightKg != nil {
		c.fail("weight_kg", "must be null unless intent is weight")
	}
	if out.Intent != entry.IntentSteps && out.Steps != nil {
		c.fail("steps", "must be null unless intent is steps")
	}

	if len(c.violations) > 0 {
		return entry.IntentClassification{}, c.violations
	}
	return out, nil
}
