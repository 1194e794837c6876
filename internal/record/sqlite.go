package record

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vitalog/vitalog/internal/entry"
)

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed bootstraps) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS meals (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        meal_type TEXT NOT NULL,
        description TEXT NOT NULL,
        calories INTEGER NOT NULL,
        eaten_at DATETIME NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS daily_metrics (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        day TEXT NOT NULL,
        weight_kg REAL,
        steps INTEGER,
        UNIQUE (user_id, day)
    );

    CREATE TABLE IF NOT EXISTS workout_sessions (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        started_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS workout_sets (
        id TEXT PRIMARY KEY,
        session_id TEXT NOT NULL,
        exercise_name TEXT NOT NULL,
        exercise_type TEXT NOT NULL,
        reps INTEGER,
        weight_kg REAL,
        duration_minutes INTEGER,
        notes TEXT,
        FOREIGN KEY (session_id) REFERENCES workout_sessions(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_meals_user_eaten ON meals(user_id, eaten_at);
    CREATE INDEX IF NOT EXISTS idx_metrics_user_day ON daily_metrics(user_id, day);
    CREATE INDEX IF NOT EXISTS idx_sessions_user_started ON workout_sessions(user_id, started_at);
    CREATE INDEX IF NOT EXISTS idx_sets_session ON workout_sets(session_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// MealsBetween returns meals eaten within [from, to], most recent first.
func (s *SQLiteStore) MealsBetween(ctx context.Context, userID string, from, to time.Time, mealType entry.MealType) ([]Meal, error) {
	query := `
        SELECT id, user_id, meal_type, description, calories, eaten_at, created_at
        FROM meals
        WHERE user_id = ? AND eaten_at >= ? AND eaten_at <= ?
    `
	args := []any{userID, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339)}

	if mealType != "" {
		query += " AND meal_type = ?"
		args = append(args, string(mealType))
	}
	query += " ORDER BY eaten_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying meals: %w", err)
	}
	defer rows.Close()

	var meals []Meal
	for rows.Next() {
		var m Meal
		var mealTypeStr, eatenAtStr, createdAtStr string
		if err := rows.Scan(&m.ID, &m.UserID, &mealTypeStr, &m.Description, &m.Calories, &eatenAtStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning meal: %w", err)
		}
		m.MealType = entry.MealType(mealTypeStr)
		if m.EatenAt, err = time.Parse(time.RFC3339, eatenAtStr); err != nil {
			return nil, fmt.Errorf("parsing eaten_at: %w", err)
		}
		if m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// MetricsBetween returns daily metrics within [from, to], oldest first.
func (s *SQLiteStore) MetricsBetween(ctx context.Context, userID string, from, to time.Time) ([]DailyMetric, error) {
	query := `
        SELECT id, user_id, day, weight_kg, steps
        FROM daily_metrics
        WHERE user_id = ? AND day >= ? AND day <= ?
        ORDER BY day ASC
    `
	rows, err := s.db.QueryContext(ctx, query, userID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying metrics: %w", err)
	}
	defer rows.Close()

	var metrics []DailyMetric
	for rows.Next() {
		var m DailyMetric
		var weight sql.NullFloat64
		var steps sql.NullInt64
		if err := rows.Scan(&m.ID, &m.UserID, &m.Day, &weight, &steps); err != nil {
			return nil, fmt.Errorf("scanning metric: %w", err)
		}
		if weight.Valid {
			w := weight.Float64
			m.WeightKg = &w
		}
		if steps.Valid {
			n := int(steps.Int64)
			m.Steps = &n
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// SessionsBetween returns workout sessions within [from, to], most recent
// first, with their sets loaded.
func (s *SQLiteStore) SessionsBetween(ctx context.Context, userID string, from, to time.Time) ([]WorkoutSession, error) {
	query := `
        SELECT id, user_id, started_at
        FROM workout_sessions
        WHERE user_id = ? AND started_at >= ? AND started_at <= ?
        ORDER BY started_at DESC
    `
	rows, err := s.db.QueryContext(ctx, query, userID, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []WorkoutSession
	for rows.Next() {
		var sess WorkoutSession
		var startedAtStr string
		if err := rows.Scan(&sess.ID, &sess.UserID, &startedAtStr); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if sess.StartedAt, err = time.Parse(time.RFC3339, startedAtStr); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		if err := s.loadSets(ctx, &sessions[i]); err != nil {
			return nil, fmt.Errorf("loading sets for session %s: %w", sessions[i].ID, err)
		}
	}
	return sessions, nil
}

func (s *SQLiteStore) loadSets(ctx context.Context, sess *WorkoutSession) error {
	query := `
        SELECT id, exercise_name, exercise_type, reps, weight_kg, duration_minutes, notes
        FROM workout_sets
        WHERE session_id = ?
        ORDER BY rowid
    `
	rows, err := s.db.QueryContext(ctx, query, sess.ID)
	if err != nil {
		return fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var sets []WorkoutSet
	for rows.Next() {
		var set WorkoutSet
		var exerciseType string
		var reps, duration sql.NullInt64
		var weight sql.NullFloat64
		var notes sql.NullString
		if err := rows.Scan(&set.ID, &set.ExerciseName, &exerciseType, &reps, &weight, &duration, &notes); err != nil {
			return fmt.Errorf("scanning set: %w", err)
		}
		set.ExerciseType = entry.ExerciseType(exerciseType)
		if reps.Valid {
			n := int(reps.Int64)
			set.Reps = &n
		}
		if weight.Valid {
			w := weight.Float64
			set.WeightKg = &w
		}
		if duration.Valid {
			n := int(duration.Int64)
			set.DurationMinutes = &n
		}
		if notes.Valid {
			v := notes.String
			set.Notes = &v
		}
		sets = append(sets, set)
	}
	sess.Sets = sets
	return rows.Err()
}

// SaveMeal persists a confirmed meal.
func (s *SQLiteStore) SaveMeal(ctx context.Context, meal *Meal) error {
	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}
	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO meals (id, user_id, meal_type, description, calories, eaten_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, meal.ID, meal.UserID, string(meal.MealType), meal.Description, meal.Calories,
		meal.EatenAt.UTC().Format(time.RFC3339), meal.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting meal: %w", err)
	}
	return nil
}

// SaveMetric upserts a day's metrics; non-nil fields overwrite existing ones.
func (s *SQLiteStore) SaveMetric(ctx context.Context, metric *DailyMetric) error {
	if metric.ID == "" {
		metric.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO daily_metrics (id, user_id, day, weight_kg, steps)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (user_id, day) DO UPDATE SET
            weight_kg = COALESCE(excluded.weight_kg, daily_metrics.weight_kg),
            steps = COALESCE(excluded.steps, daily_metrics.steps)
    `, metric.ID, metric.UserID, metric.Day, nullableFloat(metric.WeightKg), nullableInt(metric.Steps))
	if err != nil {
		return fmt.Errorf("upserting metric: %w", err)
	}
	return nil
}

// SaveSession persists a workout session and its sets in one transaction.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *WorkoutSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO workout_sessions (id, user_id, started_at)
        VALUES (?, ?, ?)
    `, session.ID, session.UserID, session.StartedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	for i := range session.Sets {
		set := &session.Sets[i]
		if set.ID == "" {
			set.ID = uuid.NewString()
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO workout_sets (id, session_id, exercise_name, exercise_type, reps, weight_kg, duration_minutes, notes)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        `, set.ID, session.ID, set.ExerciseName, string(set.ExerciseType),
			nullableInt(set.Reps), nullableFloat(set.WeightKg), nullableInt(set.DurationMinutes), nullableStr(set.Notes))
		if err != nil {
			return fmt.Errorf("inserting set: %w", err)
		}
	}

	return tx.Commit()
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableStr(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
