package interpret

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalog/vitalog/internal/entry"
	"github.com/vitalog/vitalog/internal/inference"
	"github.com/vitalog/vitalog/internal/record"
)

// fakeClient plays back a scripted sequence of responses and records every
// request it receives.
type fakeClient struct {
	script   []*inference.Response
	errs     []error
	requests []inference.Request
}

func (f *fakeClient) Name() string { return "fake" }
func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Complete(ctx context.Context, req inference.Request) (*inference.Response, error) {
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.script) {
		return nil, errors.New("fake client: script exhausted")
	}
	return f.script[i], nil
}

func textResponse(s string) *inference.Response {
	return &inference.Response{Text: s}
}

// fakeStore serves canned records and counts reads.
type fakeStore struct {
	meals    []record.Meal
	metrics  []record.DailyMetric
	sessions []record.WorkoutSession

	mealQueries  int
	gotMealsFrom time.Time
	gotMealsTo   time.Time
	gotMealType  entry.MealType
}

func (f *fakeStore) MealsBetween(ctx context.Context, userID string, from, to time.Time, mealType entry.MealType) ([]record.Meal, error) {
	f.mealQueries++
	f.gotMealsFrom, f.gotMealsTo, f.gotMealType = from, to, mealType
	return f.meals, nil
}

func (f *fakeStore) MetricsBetween(ctx context.Context, userID string, from, to time.Time) ([]record.DailyMetric, error) {
	return f.metrics, nil
}

func (f *fakeStore) SessionsBetween(ctx context.Context, userID string, from, to time.Time) ([]record.WorkoutSession, error) {
	return f.sessions, nil
}

func (f *fakeStore) SaveMeal(ctx context.Context, meal *record.Meal) error             { return nil }
func (f *fakeStore) SaveMetric(ctx context.Context, metric *record.DailyMetric) error  { return nil }
func (f *fakeStore) SaveSession(ctx context.Context, s *record.WorkoutSession) error   { return nil }
func (f *fakeStore) Close() error                                                      { return nil }

const validMealJSON = `{
	"meal_type": "breakfast",
	"description": "two eggs and toast",
	"calories": 320,
	"confidence": 0.85,
	"assumptions": ["medium eggs", "one slice of toast"]
}`

func errKind(t *testing.T, err error) entry.ErrorKind {
	t.Helper()
	var ierr *entry.Error
	require.ErrorAs(t, err, &ierr)
	return ierr.Kind
}

func TestInterpretMealDirect(t *testing.T) {
	client := &fakeClient{script: []*inference.Response{textResponse(validMealJSON)}}
	svc := New(client, &fakeStore{})

	ref := time.Date(2025, time.March, 3, 8, 15, 0, 0, time.UTC)
	meal, err := svc.InterpretMeal(context.Background(), "u1", "had two eggs and toast for breakfast",
		entry.Context{ReferenceTime: ref})
	require.NoError(t, err)

	assert.Equal(t, entry.MealBreakfast, meal.MealType)
	assert.Equal(t, "two eggs and toast", meal.Description)
	assert.Zero(t, meal.Calories%10, "calories are rounded to a multiple of 10 under 500")
	assert.GreaterOrEqual(t, meal.Confidence, 0.0)
	assert.LessOrEqual(t, meal.Confidence, 1.0)
	assert.NotEmpty(t, meal.Description)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.True(t, req.JSONOnly)
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "search_previous_meals", req.Tools[0].Name)
	assert.Contains(t, req.Turns[0].Content, "[Time: Monday, March 3 at 8:15 AM]")
}

func TestInterpretMealFencedOutput(t *testing.T) {
	client := &fakeClient{script: []*inference.Response{
		textResponse("```json\n" + validMealJSON + "\n```"),
	}}
	svc := New(client, &fakeStore{})

	meal, err := svc.InterpretMeal(context.Background(), "u1", "eggs", entry.Context{ReferenceTime: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, 320, meal.Calories)
}

func TestInterpretMealToolRoundTrip(t *testing.T) {
	ref := time.Date(2025, time.March, 4, 12, 30, 0, 0, time.UTC)
	store := &fakeStore{meals: []record.Meal{{
		MealType:    entry.MealLunch,
		Description: "chicken wrap with fries",
		Calories:    650,
		EatenAt:     time.Date(2025, time.March, 3, 12, 15, 0, 0, time.UTC),
	}}}

	toolCall := inference.ToolCall{
		ID:        "call_1",
		Name:      "search_previous_meals",
		Arguments: json.RawMessage(`{"days_ago": 1, "meal_type": "lunch"}`),
	}
	finalJSON := `{
		"meal_type": "lunch",
		"description": "chicken wrap with fries (same as yesterday)",
		"calories": 650,
		"confidence": 0.9,
		"assumptions": ["matched yesterday's lunch"]
	}`
	client := &fakeClient{script: []*inference.Response{
		inference.NewToolCallResponse([]inference.ToolCall{toolCall}, "native-assistant-turn"),
		textResponse(finalJSON),
	}}
	svc := New(client, store)

	meal, err := svc.InterpretMeal(context.Background(), "u1", "I had the same lunch as yesterday",
		entry.Context{ReferenceTime: ref})
	require.NoError(t, err)

	// The result is grounded in the retrieved record.
	assert.Equal(t, entry.MealLunch, meal.MealType)
	assert.Equal(t, 650, meal.Calories)

	// The executor queried yesterday, filtered to lunch.
	assert.Equal(t, 1, store.mealQueries)
	assert.Equal(t, 3, store.gotMealsFrom.Day())
	assert.Equal(t, entry.MealLunch, store.gotMealType)

	// The follow-up request replays the assistant turn and the tool result.
	require.Len(t, client.requests, 2)
	followUp := client.requests[1]
	require.Len(t, followUp.Turns, 3)
	assert.Equal(t, inference.RoleAssistant, followUp.Turns[1].Role)
	assert.Equal(t, "native-assistant-turn", followUp.Turns[1].Native)
	assert.Equal(t, inference.RoleTool, followUp.Turns[2].Role)
	assert.Equal(t, "call_1", followUp.Turns[2].ToolCallID)
	assert.Contains(t, followUp.Turns[2].Content, "chicken wrap with fries")
}

func TestInterpretMealToolRoundTripBound(t *testing.T) {
	toolCall := inference.ToolCall{ID: "call_1", Name: "search_previous_meals", Arguments: json.RawMessage(`{"days_ago": 1}`)}

	t.Run("second tool request is ignored and text parsed as-is", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{
			inference.NewToolCallResponse([]inference.ToolCall{toolCall}, "turn1"),
			inference.NewToolCallResponse([]inference.ToolCall{toolCall}, "turn2"),
		}}
		svc := New(client, &fakeStore{})

		_, err := svc.InterpretMeal(context.Background(), "u1", "same as yesterday", entry.Context{ReferenceTime: time.Now()})
		assert.Equal(t, entry.ErrMalformedOutput, errKind(t, err))
		// Exactly two completion calls: the bound holds.
		assert.Len(t, client.requests, 2)
	})

	t.Run("only the first of multiple tool calls is executed", func(t *testing.T) {
		second := inference.ToolCall{ID: "call_2", Name: "search_previous_meals", Arguments: json.RawMessage(`{"days_ago": 2}`)}
		store := &fakeStore{}
		client := &fakeClient{script: []*inference.Response{
			inference.NewToolCallResponse([]inference.ToolCall{toolCall, second}, "turn1"),
			textResponse(validMealJSON),
		}}
		svc := New(client, store)

		_, err := svc.InterpretMeal(context.Background(), "u1", "same as yesterday", entry.Context{ReferenceTime: time.Now()})
		require.NoError(t, err)
		assert.Equal(t, 1, store.mealQueries)

		// The unanswered call still gets a refusal turn so the exchange
		// stays well-formed.
		followUp := client.requests[1]
		require.Len(t, followUp.Turns, 4)
		assert.Equal(t, "call_2", followUp.Turns[3].ToolCallID)
		assert.Contains(t, followUp.Turns[3].Content, "only one tool call")
	})
}

func TestInterpretMealFailures(t *testing.T) {
	t.Run("non-JSON output", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{textResponse("I think that was about 300 calories.")}}
		svc := New(client, &fakeStore{})
		_, err := svc.InterpretMeal(context.Background(), "u1", "eggs", entry.Context{ReferenceTime: time.Now()})
		assert.Equal(t, entry.ErrMalformedOutput, errKind(t, err))
	})

	t.Run("schema violation carries field reasons", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{textResponse(`{
			"meal_type": "brunch", "description": "eggs", "calories": 300,
			"confidence": 0.9, "assumptions": []
		}`)}}
		svc := New(client, &fakeStore{})
		_, err := svc.InterpretMeal(context.Background(), "u1", "eggs", entry.Context{ReferenceTime: time.Now()})
		var ierr *entry.Error
		require.ErrorAs(t, err, &ierr)
		assert.Equal(t, entry.ErrSchemaViolation, ierr.Kind)
		require.Len(t, ierr.Violations, 1)
		assert.Equal(t, "meal_type", ierr.Violations[0].Field)
	})

	t.Run("inference failure", func(t *testing.T) {
		client := &fakeClient{errs: []error{errors.New("connection refused")}}
		svc := New(client, &fakeStore{})
		_, err := svc.InterpretMeal(context.Background(), "u1", "eggs", entry.Context{ReferenceTime: time.Now()})
		assert.Equal(t, entry.ErrInferenceUnavailable, errKind(t, err))
	})
}

func TestInterpretWorkoutSet(t *testing.T) {
	t.Run("cardio extraction", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{textResponse(`{
			"exercise_name": "running", "exercise_type": "cardio",
			"reps": null, "weight_kg": null, "duration_minutes": 25,
			"notes": null, "confidence": 0.95, "assumptions": []
		}`)}}
		svc := New(client, &fakeStore{})

		set, err := svc.InterpretWorkoutSet(context.Background(), "ran for 25 minutes")
		require.NoError(t, err)
		assert.Equal(t, entry.ExerciseCardio, set.ExerciseType)
		require.NotNil(t, set.DurationMinutes)
		assert.Equal(t, 25, *set.DurationMinutes)
		assert.Nil(t, set.Reps)
		assert.Nil(t, set.WeightKg)
		assert.Equal(t, "Running", set.ExerciseName)
	})

	t.Run("resistance name is normalized to canonical form", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{textResponse(`{
			"exercise_name": "bench press", "exercise_type": "resistance",
			"reps": 8, "weight_kg": 68, "duration_minutes": null,
			"notes": null, "confidence": 0.9, "assumptions": []
		}`)}}
		svc := New(client, &fakeStore{})

		set, err := svc.InterpretWorkoutSet(context.Background(), "benched 150 lb for 8")
		require.NoError(t, err)
		assert.Equal(t, "Bench Press", set.ExerciseName)
		require.NotNil(t, set.WeightKg)
		assert.InDelta(t, 68.0, *set.WeightKg, 1e-9)
	})

	t.Run("exclusivity violation is rejected", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{textResponse(`{
			"exercise_name": "running", "exercise_type": "cardio",
			"reps": 10, "weight_kg": null, "duration_minutes": 25,
			"notes": null, "confidence": 0.9, "assumptions": []
		}`)}}
		svc := New(client, &fakeStore{})
		_, err := svc.InterpretWorkoutSet(context.Background(), "ran")
		assert.Equal(t, entry.ErrSchemaViolation, errKind(t, err))
	})
}

func TestClassifyIntent(t *testing.T) {
	client := &fakeClient{script: []*inference.Response{textResponse(`{
		"intent": "steps", "confidence": 0.97,
		"weight_kg": null, "steps": 10000,
		"assumptions": ["10k expanded to 10,000"]
	}`)}}
	svc := New(client, &fakeStore{})

	cls, err := svc.ClassifyIntent(context.Background(), "steps today: 10k")
	require.NoError(t, err)
	assert.Equal(t, entry.IntentSteps, cls.Intent)
	require.NotNil(t, cls.Steps)
	assert.Equal(t, 10000, *cls.Steps)
}

func classification(intent string, extra string) *inference.Response {
	return textResponse(`{"intent": "` + intent + `", "confidence": 0.9, "weight_kg": null, "steps": null, "assumptions": []` + extra + `}`)
}

func TestInterpretEntry(t *testing.T) {
	t.Run("meal path", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{
			classification("meal", ""),
			textResponse(validMealJSON),
		}}
		svc := New(client, &fakeStore{})

		res, err := svc.InterpretEntry(context.Background(), "u1", "had two eggs and toast", "")
		require.NoError(t, err)
		assert.Equal(t, entry.IntentMeal, res.Intent)
		assert.Equal(t, "Logged two eggs and toast · 320 kcal", res.SystemDraft)
		_, ok := res.Payload.(*entry.MealInterpretation)
		assert.True(t, ok)
	})

	t.Run("workout path draft shows reps and weight", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{
			classification("workout_set", ""),
			textResponse(`{
				"exercise_name": "squat", "exercise_type": "resistance",
				"reps": 5, "weight_kg": 100, "duration_minutes": null,
				"notes": null, "confidence": 0.9, "assumptions": []
			}`),
		}}
		svc := New(client, &fakeStore{})

		res, err := svc.InterpretEntry(context.Background(), "u1", "squatted 100kg for 5", "")
		require.NoError(t, err)
		assert.Equal(t, "Logged Squat · 5 reps · 100.0 kg", res.SystemDraft)
	})

	t.Run("workout path draft shows duration for cardio", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{
			classification("workout_set", ""),
			textResponse(`{
				"exercise_name": "running", "exercise_type": "cardio",
				"reps": null, "weight_kg": null, "duration_minutes": 25,
				"notes": null, "confidence": 0.9, "assumptions": []
			}`),
		}}
		svc := New(client, &fakeStore{})

		res, err := svc.InterpretEntry(context.Background(), "u1", "ran for 25 minutes", "")
		require.NoError(t, err)
		assert.Equal(t, "Logged Running · 25 min", res.SystemDraft)
	})

	t.Run("weight path", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{
			textResponse(`{"intent": "weight", "confidence": 0.95, "weight_kg": 80.5, "steps": null, "assumptions": []}`),
		}}
		svc := New(client, &fakeStore{})

		res, err := svc.InterpretEntry(context.Background(), "u1", "weighed in at 80.5 kg", "")
		require.NoError(t, err)
		assert.Equal(t, entry.IntentWeight, res.Intent)
		assert.Equal(t, "Logged weight · 80.5 kg", res.SystemDraft)
		payload := res.Payload.(*entry.MetricValue)
		require.NotNil(t, payload.WeightKg)
	})

	t.Run("weight without value fails with extraction incomplete", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{classification("weight", "")}}
		svc := New(client, &fakeStore{})

		_, err := svc.InterpretEntry(context.Background(), "u1", "logged my weight", "")
		assert.Equal(t, entry.ErrExtractionIncomplete, errKind(t, err))
	})

	t.Run("steps without value fails with extraction incomplete", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{classification("steps", "")}}
		svc := New(client, &fakeStore{})

		_, err := svc.InterpretEntry(context.Background(), "u1", "walked a lot today", "")
		assert.Equal(t, entry.ErrExtractionIncomplete, errKind(t, err))
	})

	t.Run("classifier failure propagates as-is", func(t *testing.T) {
		client := &fakeClient{script: []*inference.Response{textResponse("not json")}}
		svc := New(client, &fakeStore{})
		_, err := svc.InterpretEntry(context.Background(), "u1", "hello", "")
		assert.Equal(t, entry.ErrMalformedOutput, errKind(t, err))
	})
}

func TestInterpretEntryQuestion(t *testing.T) {
	store := &fakeStore{
		meals: []record.Meal{{
			MealType:    entry.MealDinner,
			Description: "salmon and rice",
			Calories:    700,
			EatenAt:     time.Date(2025, time.March, 2, 19, 0, 0, 0, time.UTC),
		}},
		metrics: []record.DailyMetric{{Day: "2025-03-01", Steps: intPtr(9000)}},
	}
	client := &fakeClient{script: []*inference.Response{
		classification("question", ""),
		textResponse("You had salmon and rice for dinner on Sunday, about 700 kcal."),
	}}
	svc := New(client, store)

	res, err := svc.InterpretEntry(context.Background(), "u1", "what did I eat for dinner on Sunday?", "")
	require.NoError(t, err)
	assert.Equal(t, entry.IntentQuestion, res.Intent)
	answer := res.Payload.(*entry.Answer)
	assert.Contains(t, answer.Answer, "salmon and rice")

	// Weekday language widens the window to 28 days.
	require.Len(t, client.requests, 2)
	windowSpan := store.gotMealsTo.Sub(store.gotMealsFrom)
	assert.InDelta(t, float64(28*24*time.Hour), float64(windowSpan), float64(time.Hour))

	// The answer prompt embeds the window and the literal question.
	answerReq := client.requests[1]
	assert.Contains(t, answerReq.Turns[0].Content, "salmon and rice")
	assert.Contains(t, answerReq.Turns[0].Content, "Question: what did I eat for dinner on Sunday?")
	assert.False(t, answerReq.JSONOnly)
	assert.Empty(t, answerReq.Tools)
}

func TestWindowDefaultsToSevenDays(t *testing.T) {
	store := &fakeStore{}
	client := &fakeClient{script: []*inference.Response{
		classification("question", ""),
		textResponse("Not enough data to say."),
	}}
	svc := New(client, store)

	_, err := svc.InterpretEntry(context.Background(), "u1", "how many calories have I eaten?", "")
	require.NoError(t, err)
	windowSpan := store.gotMealsTo.Sub(store.gotMealsFrom)
	assert.InDelta(t, float64(7*24*time.Hour), float64(windowSpan), float64(time.Hour))
}

func TestMentionsRelativeDate(t *testing.T) {
	assert.True(t, mentionsRelativeDate("what's planned for tomorrow"))
	assert.True(t, mentionsRelativeDate("next week"))
	assert.True(t, mentionsRelativeDate("what did I eat on Wednesday"))
	assert.False(t, mentionsRelativeDate("how many calories today"))
	assert.False(t, mentionsRelativeDate("total steps this morning"))
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no fences", in: `{"a": 1}`, want: `{"a": 1}`},
		{name: "json fence", in: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", in: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "single line fence", in: "```json{\"a\": 1}```", want: `{"a": 1}`},
		{name: "surrounding whitespace", in: "  {\"a\": 1}\n", want: `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}

func intPtr(v int) *int { return &v }
