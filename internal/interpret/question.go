package interpret

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vitalog/vitalog/internal/entry"
	"github.com/vitalog/vitalog/internal/inference"
	"github.com/vitalog/vitalog/internal/prompt"
	"github.com/vitalog/vitalog/internal/record"
)

const (
	defaultWindowDays  = 7
	extendedWindowDays = 28
)

var weekdayWords = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// answerQuestion answers a free-text question from a bounded window of the
// user's history. This path performs no writes and the prompt forbids the
// model from inventing values absent from the window.
func (s *Service) answerQuestion(ctx context.Context, userID, transcript string, ectx entry.Context) (*entry.Answer, error) {
	days := defaultWindowDays
	if mentionsRelativeDate(transcript) {
		days = extendedWindowDays
	}

	ref := ectx.Reference()
	from := ref.AddDate(0, 0, -days)

	// Three independent reads; no ordering requirement between them.
	var (
		meals    []record.Meal
		metrics  []record.DailyMetric
		sessions []record.WorkoutSession
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meals, err = s.store.MealsBetween(gctx, userID, from, ref, "")
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = s.store.MetricsBetween(gctx, userID, from, ref)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.store.SessionsBetween(gctx, userID, from, ref)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching history window: %w", err)
	}

	window := renderWindow(meals, metrics, sessions, ref.Location())
	slog.Debug("history window built", "user_id", userID, "days", days,
		"meals", len(meals), "metrics", len(metrics), "sessions", len(sessions))

	p := prompt.Question(transcript, window)
	resp, err := s.client.Complete(ctx, inference.Request{
		System: p.System,
		Turns:  []inference.Turn{inference.UserTurn(p.User)},
	})
	if err != nil {
		return nil, entry.WrapError(entry.ErrInferenceUnavailable, err, "answer call failed")
	}

	answer := strings.TrimSpace(resp.Text)
	if answer == "" {
		return nil, entry.NewError(entry.ErrMalformedOutput, "model returned an empty answer")
	}
	return &entry.Answer{Answer: answer}, nil
}

// mentionsRelativeDate reports whether the question uses weekday or
// relative-date language, which widens the window from 7 to 28 days.
func mentionsRelativeDate(transcript string) bool {
	lower := strings.ToLower(transcript)
	if strings.Contains(lower, "tomorrow") || strings.Contains(lower, "next") {
		return true
	}
	for _, day := range weekdayWords {
		if strings.Contains(lower, day) {
			return true
		}
	}
	return false
}

// renderWindow renders the history as compact text blocks, one line per
// record: meals and workouts most-recent-first, metrics chronological.
func renderWindow(meals []record.Meal, metrics []record.DailyMetric, sessions []record.WorkoutSession, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString("Meals (most recent first):\n")
	if len(meals) == 0 {
		sb.WriteString("- none\n")
	}
	for _, m := range meals {
		at := m.EatenAt.In(loc)
		fmt.Fprintf(&sb, "- %s %s · %s · %s · %d kcal\n",
			at.Format("Monday, January 2"), at.Format("3:04 PM"), m.MealType, m.Description, m.Calories)
	}

	sb.WriteString("\nDaily metrics (chronological):\n")
	if len(metrics) == 0 {
		sb.WriteString("- none\n")
	}
	for _, m := range metrics {
		line := "- " + m.Day
		if m.WeightKg != nil {
			line += fmt.Sprintf(" · weight %.1f kg", *m.WeightKg)
		}
		if m.Steps != nil {
			line += fmt.Sprintf(" · steps %d", *m.Steps)
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\nWorkouts (most recent first):\n")
	if len(sessions) == 0 {
		sb.WriteString("- none\n")
	}
	for _, sess := range sessions {
		fmt.Fprintf(&sb, "- %s · %s\n",
			sess.StartedAt.In(loc).Format("Monday, January 2"), renderSets(sess.Sets))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderSets(sets []record.WorkoutSet) string {
	if len(sets) == 0 {
		return "no sets"
	}
	parts := make([]string, 0, len(sets))
	for _, set := range sets {
		p := set.ExerciseName
		if set.Reps != nil {
			p += fmt.Sprintf(" %d reps", *set.Reps)
		}
		if set.WeightKg != nil {
			p += fmt.Sprintf(" at %.1f kg", *set.WeightKg)
		}
		if set.DurationMinutes != nil {
			p += fmt.Sprintf(" %d min", *set.DurationMinutes)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "; ")
}
