// Package tools executes the closed set of domain queries the model may
// request mid-generation. Only one tool exists; an unknown name fails the
// whole interpretation rather than being ignored.
package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/vitalog/vitalog/internal/entry"
	"github.com/vitalog/vitalog/internal/inference"
	"github.com/vitalog/vitalog/internal/record"
)

// SearchPreviousMeals is the single registered tool name.
const SearchPreviousMeals = "search_previous_meals"

// Specs returns the tool declarations passed to the inference service for
// meal interpretation.
func Specs() []inference.Tool {
	return []inference.Tool{
		{
			Name:        SearchPreviousMeals,
			Description: "Look up the user's logged meals from a previous day. Use when the text refers to an earlier meal (\"same as yesterday\").",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"days_ago": map[string]any{
						"type":        "integer",
						"description": "How many days back to look. 1 means yesterday.",
					},
					"meal_type": map[string]any{
						"type":        []string{"string", "null"},
						"enum":        []any{"breakfast", "lunch", "dinner", "snack", nil},
						"description": "Optional meal slot to filter by.",
					},
				},
				"required":             []string{"days_ago", "meal_type"},
				"additionalProperties": false,
			},
		},
	}
}

// Executor runs tool calls against the record store. All tools are
// side-effect-free reads.
type Executor struct {
	store record.Store
}

// NewExecutor creates an Executor backed by the given store.
func NewExecutor(store record.Store) *Executor {
	return &Executor{store: store}
}

type searchArgs struct {
	DaysAgo  int    `json:"days_ago"`
	MealType string `json:"meal_type"`
}

// mealSummary is the compact per-meal payload returned to the model.
type mealSummary struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	MealType    string `json:"meal_type"`
	Description string `json:"description"`
	Calories    int    `json:"calories"`
}

// Execute runs one tool call and returns its JSON payload. The reference
// context anchors relative dates in the caller's timezone.
func (e *Executor) Execute(ctx context.Context, userID string, call inference.ToolCall, ectx entry.Context) (string, error) {
	if call.Name != SearchPreviousMeals {
		return "", entry.NewError(entry.ErrToolExecutionFailure, "unknown tool %q", call.Name)
	}

	var args searchArgs
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", entry.WrapError(entry.ErrToolExecutionFailure, err, "decoding %s arguments", call.Name)
		}
	}
	if args.DaysAgo <= 0 {
		args.DaysAgo = 1
	}
	mealType := entry.MealType(args.MealType)
	if args.MealType != "" && !mealType.Known() {
		return "", entry.NewError(entry.ErrToolExecutionFailure, "%s: unknown meal type %q", call.Name, args.MealType)
	}

	ref := ectx.Reference()
	target := ref.AddDate(0, 0, -args.DaysAgo)
	start := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	meals, err := e.store.MealsBetween(ctx, userID, start, end, mealType)
	if err != nil {
		return "", entry.WrapError(entry.ErrToolExecutionFailure, err, "searching previous meals")
	}

	summaries := make([]mealSummary, 0, len(meals))
	for _, m := range meals {
		at := m.EatenAt.In(ref.Location())
		summaries = append(summaries, mealSummary{
			Date:        at.Format("Monday, January 2"),
			Time:        at.Format("3:04 PM"),
			MealType:    string(m.MealType),
			Description: m.Description,
			Calories:    m.Calories,
		})
	}

	payload, err := json.Marshal(map[string]any{"meals": summaries})
	if err != nil {
		return "", entry.WrapError(entry.ErrToolExecutionFailure, err, "encoding tool result")
	}

	slog.Debug("tool executed", "tool", call.Name, "days_ago", args.DaysAgo, "meal_type", args.MealType, "meals", len(summaries))
	return string(payload), nil
}
