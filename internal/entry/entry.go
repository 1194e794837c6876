// Package entry defines the core data types flowing through the vitalog
// interpretation pipeline.
package entry

import "time"

// Intent is the coarse category a transcript is routed to.
type Intent string

const (
	IntentMeal       Intent = "meal"
	IntentWorkoutSet Intent = "workout_set"
	IntentWeight     Intent = "weight"
	IntentSteps      Intent = "steps"
	IntentQuestion   Intent = "question"
)

// Known reports whether i is one of the five recognized intents.
func (i Intent) Known() bool {
	switch i {
	case IntentMeal, IntentWorkoutSet, IntentWeight, IntentSteps, IntentQuestion:
		return true
	}
	return false
}

// MealType is one of the four fixed meal slots.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// Known reports whether m is one of the four recognized meal types.
func (m MealType) Known() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// ExerciseType distinguishes resistance work from cardio.
type ExerciseType string

const (
	ExerciseResistance ExerciseType = "resistance"
	ExerciseCardio     ExerciseType = "cardio"
)

// Known reports whether e is a recognized exercise type.
func (e ExerciseType) Known() bool {
	return e == ExerciseResistance || e == ExerciseCardio
}

// Context carries per-request interpretation context. It is used only to
// build prompts and resolve dates; nothing here is persisted.
type Context struct {
	// ReferenceTime anchors relative dates ("yesterday"). Defaults to now.
	ReferenceTime time.Time

	// MealTypeHint is an optional caller-supplied meal slot.
	MealTypeHint MealType

	// Timezone is an optional IANA timezone name (e.g., "Europe/Berlin").
	Timezone string
}

// Location resolves the context's timezone, falling back to UTC.
func (c Context) Location() *time.Location {
	if c.Timezone != "" {
		if loc, err := time.LoadLocation(c.Timezone); err == nil {
			return loc
		}
	}
	return time.UTC
}

// Reference returns the reference time in the context's location,
// defaulting to the current time when unset.
func (c Context) Reference() time.Time {
	t := c.ReferenceTime
	if t.IsZero() {
		t = time.Now()
	}
	return t.In(c.Location())
}

// MealInterpretation is the structured outcome of interpreting a meal
// transcript.
type MealInterpretation struct {
	MealType    MealType `json:"meal_type"`
	Description string   `json:"description"`
	Calories    int      `json:"calories"`
	Confidence  float64  `json:"confidence"`
	Assumptions []string `json:"assumptions"`
}

// WorkoutSetInterpretation is the structured outcome of interpreting a
// workout-set transcript. Reps/WeightKg are nil for cardio;
// DurationMinutes is nil for resistance work.
type WorkoutSetInterpretation struct {
	ExerciseName    string       `json:"exercise_name"`
	ExerciseType    ExerciseType `json:"exercise_type"`
	Reps            *int         `json:"reps"`
	WeightKg        *float64     `json:"weight_kg"`
	DurationMinutes *int         `json:"duration_minutes"`
	Notes           *string      `json:"notes"`
	Confidence      float64      `json:"confidence"`
	Assumptions     []string     `json:"assumptions"`
}

// IntentClassification labels a transcript with one of the five intents.
// WeightKg and Steps are populated only for the matching intent.
type IntentClassification struct {
	Intent      Intent   `json:"intent"`
	Confidence  float64  `json:"confidence"`
	WeightKg    *float64 `json:"weight_kg"`
	Steps       *int     `json:"steps"`
	Assumptions []string `json:"assumptions"`
}

// MetricValue is the payload for weight and steps entries extracted
// directly by the classifier.
type MetricValue struct {
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Steps    *int     `json:"steps,omitempty"`
}

// Answer is the payload for the question intent.
type Answer struct {
	Answer string `json:"answer"`
}

// Result is the outcome of interpreting one entry: the routed intent, the
// typed payload for that intent, and a short human-readable draft line the
// UI shows for confirmation.
type Result struct {
	Intent Intent `json:"intent"`

	// Payload is one of *MealInterpretation, *WorkoutSetInterpretation,
	// *MetricValue, or *Answer depending on Intent.
	Payload any `json:"payload"`

	SystemDraft string `json:"system_draft"`
}
