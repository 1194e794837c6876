// Package record defines the durable health records and the store that
// holds them.
//
// The interpretation core only reads from the store (previous meals for
// tool calls, the historical window for question answering); writes happen
// after the user confirms a draft.
package record

import (
	"context"
	"time"

	"github.com/vitalog/vitalog/internal/entry"
)

// Meal is one logged meal.
type Meal struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	MealType    entry.MealType `json:"meal_type"`
	Description string         `json:"description"`
	Calories    int            `json:"calories"`
	EatenAt     time.Time      `json:"eaten_at"`
	CreatedAt   time.Time      `json:"created_at"`
}

// DailyMetric is one day's body metrics. Either value may be absent.
type DailyMetric struct {
	ID       string   `json:"id"`
	UserID   string   `json:"user_id"`
	Day      string   `json:"day"` // YYYY-MM-DD in the user's timezone
	WeightKg *float64 `json:"weight_kg"`
	Steps    *int     `json:"steps"`
}

// WorkoutSet is one set within a workout session.
type WorkoutSet struct {
	ID              string             `json:"id"`
	ExerciseName    string             `json:"exercise_name"`
	ExerciseType    entry.ExerciseType `json:"exercise_type"`
	Reps            *int               `json:"reps"`
	WeightKg        *float64           `json:"weight_kg"`
	DurationMinutes *int               `json:"duration_minutes"`
	Notes           *string            `json:"notes"`
}

// WorkoutSession is one workout with its sets.
type WorkoutSession struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	StartedAt time.Time    `json:"started_at"`
	Sets      []WorkoutSet `json:"sets"`
}

// Store is the record store the pipeline reads from and the confirm
// endpoints write to.
type Store interface {
	// MealsBetween returns meals eaten within [from, to], most recent
	// first. A non-empty mealType filters to that slot.
	MealsBetween(ctx context.Context, userID string, from, to time.Time, mealType entry.MealType) ([]Meal, error)

	// MetricsBetween returns daily metrics for days within [from, to],
	// in chronological order.
	MetricsBetween(ctx context.Context, userID string, from, to time.Time) ([]DailyMetric, error)

	// SessionsBetween returns workout sessions started within [from, to],
	// most recent first, each with its sets.
	SessionsBetween(ctx context.Context, userID string, from, to time.Time) ([]WorkoutSession, error)

	// SaveMeal persists a confirmed meal.
	SaveMeal(ctx context.Context, meal *Meal) error

	// SaveMetric upserts a day's metrics; non-nil fields overwrite.
	SaveMetric(ctx context.Context, metric *DailyMetric) error

	// SaveSession persists a workout session and its sets.
	SaveSession(ctx context.Context, session *WorkoutSession) error

	// Close releases the underlying storage.
	Close() error
}
