// Package http exposes the vitalog interpretation pipeline and record store
// over a REST API.
//
// Interpret endpoints run the pipeline and return drafts; nothing is
// persisted until the client confirms a draft through the record endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vitalog/vitalog/internal/entry"
	"github.com/vitalog/vitalog/internal/interpret"
	"github.com/vitalog/vitalog/internal/record"
	"github.com/vitalog/vitalog/internal/transcribe"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// maxAudioBytes caps raw audio uploads.
const maxAudioBytes = 25 << 20

// Server serves the vitalog REST API.
type Server struct {
	port        int
	svc         *interpret.Service
	store       record.Store
	transcriber transcribe.Transcriber
	server      *http.Server
}

// New creates a Server on the given port. transcriber may be nil when no
// voice input is configured; audio uploads then fail with 503.
func New(port int, svc *interpret.Service, store record.Store, transcriber transcribe.Transcriber) *Server {
	return &Server{port: port, svc: svc, store: store, transcriber: transcriber}
}

// Listen starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Listen(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		slog.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/entries/interpret", s.handleInterpretEntry)
	mux.HandleFunc("POST /api/meals/interpret", s.handleInterpretMeal)
	mux.HandleFunc("POST /api/workouts/interpret", s.handleInterpretWorkout)

	mux.HandleFunc("POST /api/meals", s.handleCreateMeal)
	mux.HandleFunc("GET /api/meals", s.handleListMeals)
	mux.HandleFunc("POST /api/metrics", s.handleCreateMetric)
	mux.HandleFunc("POST /api/workouts", s.handleCreateWorkout)

	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// --- Interpret endpoints ---

type interpretEntryRequest struct {
	UserID   string `json:"user_id"`
	Text     string `json:"text"`
	Timezone string `json:"timezone"`
}

type interpretEntryResponse struct {
	Transcript string `json:"transcript"`
	*entry.Result
}

// handleInterpretEntry runs the full classify-and-dispatch pipeline.
//
// @Summary     Interpret a free-form health entry
// @Description Accepts a JSON body with pre-transcribed text, or raw audio bytes
// @Description (with an audio Content-Type) that are transcribed first. Returns the
// @Description classified intent, the typed payload, and a draft confirmation line.
// @Description Nothing is persisted.
// @Tags        interpret
// @Accept      json
// @Accept      audio/wav
// @Accept      audio/ogg
// @Produce     json
// @Param       entry  body      interpretEntryRequest  true  "Entry to interpret. For audio, POST the bytes directly and pass user_id via the X-Vitalog-User header."
// @Success     200  {object}  interpretEntryResponse
// @Failure     400  {object}  errorResponse  "Missing or invalid fields"
// @Failure     422  {object}  errorResponse  "Entry understood but a required value could not be extracted"
// @Failure     502  {object}  errorResponse  "Inference backend failed or produced unusable output"
// @Router      /api/entries/interpret [post]
func (s *Server) handleInterpretEntry(w http.ResponseWriter, r *http.Request) {
	var req interpretEntryRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid json: "+err.Error())
			return
		}
	} else {
		// Raw audio body; identity comes from headers.
		req.UserID = r.Header.Get("X-Vitalog-User")
		req.Timezone = r.Header.Get("X-Vitalog-Timezone")

		text, err := s.transcribeBody(r, contentType)
		if err != nil {
			writeError(w, err)
			return
		}
		req.Text = text
	}

	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	result, err := s.svc.InterpretEntry(r.Context(), req.UserID, req.Text, req.Timezone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interpretEntryResponse{Transcript: req.Text, Result: result})
}

type interpretMealRequest struct {
	UserID   string `json:"user_id"`
	Text     string `json:"text"`
	MealType string `json:"meal_type"`
	EatenAt  string `json:"eaten_at"` // RFC 3339, defaults to now
	Timezone string `json:"timezone"`
}

// handleInterpretMeal runs the meal interpreter directly.
//
// @Summary     Interpret a meal description
// @Tags        interpret
// @Accept      json
// @Produce     json
// @Param       meal  body      interpretMealRequest  true  "Meal description with optional meal-type hint and eaten-at time"
// @Success     200  {object}  entry.MealInterpretation
// @Failure     400  {object}  errorResponse
// @Failure     502  {object}  errorResponse
// @Router      /api/meals/interpret [post]
func (s *Server) handleInterpretMeal(w http.ResponseWriter, r *http.Request) {
	var req interpretMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json: "+err.Error())
		return
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	ectx := entry.Context{Timezone: req.Timezone}
	if req.MealType != "" {
		hint := entry.MealType(req.MealType)
		if !hint.Known() {
			badRequest(w, "unknown meal_type "+req.MealType)
			return
		}
		ectx.MealTypeHint = hint
	}
	if req.EatenAt != "" {
		at, err := time.Parse(time.RFC3339, req.EatenAt)
		if err != nil {
			badRequest(w, "eaten_at must be RFC 3339")
			return
		}
		ectx.ReferenceTime = at
	}

	meal, err := s.svc.InterpretMeal(r.Context(), req.UserID, req.Text, ectx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

type interpretWorkoutRequest struct {
	Text string `json:"text"`
}

// handleInterpretWorkout runs the workout-set interpreter directly.
//
// @Summary     Interpret a workout set description
// @Tags        interpret
// @Accept      json
// @Produce     json
// @Param       set  body      interpretWorkoutRequest  true  "Workout set description"
// @Success     200  {object}  entry.WorkoutSetInterpretation
// @Failure     400  {object}  errorResponse
// @Failure     502  {object}  errorResponse
// @Router      /api/workouts/interpret [post]
func (s *Server) handleInterpretWorkout(w http.ResponseWriter, r *http.Request) {
	var req interpretWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	set, err := s.svc.InterpretWorkoutSet(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) transcribeBody(r *http.Request, contentType string) (string, error) {
	if s.transcriber == nil {
		return "", entry.NewError(entry.ErrTranscriptionUnavailable, "no transcription backend configured")
	}
	audio, err := io.ReadAll(io.LimitReader(r.Body, maxAudioBytes))
	if err != nil {
		return "", entry.WrapError(entry.ErrTranscriptionUnavailable, err, "reading audio body")
	}
	return s.transcriber.Transcribe(r.Context(), audio, contentType)
}

// --- Record endpoints ---

// handleCreateMeal persists a confirmed meal.
//
// @Summary     Log a confirmed meal
// @Tags        records
// @Accept      json
// @Produce     json
// @Param       meal  body      record.Meal  true  "Meal to log. ID and created_at are assigned server-side; eaten_at defaults to now."
// @Success     201  {object}  record.Meal
// @Failure     400  {object}  errorResponse
// @Router      /api/meals [post]
func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	var meal record.Meal
	if err := json.NewDecoder(r.Body).Decode(&meal); err != nil {
		badRequest(w, "invalid json: "+err.Error())
		return
	}
	if meal.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}
	if !meal.MealType.Known() {
		badRequest(w, "unknown meal_type "+string(meal.MealType))
		return
	}
	if strings.TrimSpace(meal.Description) == "" {
		badRequest(w, "description is required")
		return
	}
	if meal.Calories < 0 {
		badRequest(w, "calories must be non-negative")
		return
	}
	if meal.EatenAt.IsZero() {
		meal.EatenAt = time.Now()
	}

	if err := s.store.SaveMeal(r.Context(), &meal); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("meal logged", "user_id", meal.UserID, "meal_type", meal.MealType, "calories", meal.Calories)
	writeJSON(w, http.StatusCreated, meal)
}

// handleListMeals returns meals in a time range.
//
// @Summary     List logged meals
// @Tags        records
// @Produce     json
// @Param       user_id    query  string  true   "User whose meals to list"
// @Param       from       query  string  false  "Range start, RFC 3339 (default: 7 days ago)"
// @Param       to         query  string  false  "Range end, RFC 3339 (default: now)"
// @Param       meal_type  query  string  false  "Filter to one meal slot"
// @Success     200  {object}  mealListResponse
// @Failure     400  {object}  errorResponse
// @Router      /api/meals [get]
func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")
	if userID == "" {
		badRequest(w, "user_id is required")
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -7)
	var err error
	if v := q.Get("from"); v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			badRequest(w, "from must be RFC 3339")
			return
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			badRequest(w, "to must be RFC 3339")
			return
		}
	}

	var mealType entry.MealType
	if v := q.Get("meal_type"); v != "" {
		mealType = entry.MealType(v)
		if !mealType.Known() {
			badRequest(w, "unknown meal_type "+v)
			return
		}
	}

	meals, err := s.store.MealsBetween(r.Context(), userID, from, to, mealType)
	if err != nil {
		internalError(w, err)
		return
	}
	if meals == nil {
		meals = []record.Meal{}
	}
	writeJSON(w, http.StatusOK, mealListResponse{Meals: meals})
}

type mealListResponse struct {
	Meals []record.Meal `json:"meals"`
}

// handleCreateMetric upserts a day's weight/steps.
//
// @Summary     Log confirmed daily metrics
// @Description Upserts by (user_id, day); a non-null value overwrites that field,
// @Description a null value leaves it untouched.
// @Tags        records
// @Accept      json
// @Produce     json
// @Param       metric  body      record.DailyMetric  true  "Metric values for one day"
// @Success     201  {object}  record.DailyMetric
// @Failure     400  {object}  errorResponse
// @Router      /api/metrics [post]
func (s *Server) handleCreateMetric(w http.ResponseWriter, r *http.Request) {
	var metric record.DailyMetric
	if err := json.NewDecoder(r.Body).Decode(&metric); err != nil {
		badRequest(w, "invalid json: "+err.Error())
		return
	}
	if metric.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}
	if metric.Day == "" {
		metric.Day = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", metric.Day); err != nil {
		badRequest(w, "day must be YYYY-MM-DD")
		return
	}
	if metric.WeightKg == nil && metric.Steps == nil {
		badRequest(w, "at least one of weight_kg or steps is required")
		return
	}
	if metric.WeightKg != nil && *metric.WeightKg <= 0 {
		badRequest(w, "weight_kg must be positive")
		return
	}
	if metric.Steps != nil && *metric.Steps < 0 {
		badRequest(w, "steps must be non-negative")
		return
	}

	if err := s.store.SaveMetric(r.Context(), &metric); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, metric)
}

// handleCreateWorkout persists a confirmed workout session.
//
// @Summary     Log a confirmed workout session
// @Tags        records
// @Accept      json
// @Produce     json
// @Param       session  body      record.WorkoutSession  true  "Session with at least one set. started_at defaults to now."
// @Success     201  {object}  record.WorkoutSession
// @Failure     400  {object}  errorResponse
// @Router      /api/workouts [post]
func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var session record.WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		badRequest(w, "invalid json: "+err.Error())
		return
	}
	if session.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}
	if len(session.Sets) == 0 {
		badRequest(w, "at least one set is required")
		return
	}
	for i, set := range session.Sets {
		if strings.TrimSpace(set.ExerciseName) == "" {
			badRequest(w, fmt.Sprintf("sets[%d].exercise_name is required", i))
			return
		}
		if !set.ExerciseType.Known() {
			badRequest(w, fmt.Sprintf("sets[%d].exercise_type must be resistance or cardio", i))
			return
		}
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}

	if err := s.store.SaveSession(r.Context(), &session); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("workout logged", "user_id", session.UserID, "sets", len(session.Sets))
	writeJSON(w, http.StatusCreated, session)
}

// --- Response helpers ---

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind       string                 `json:"kind"`
	Message    string                 `json:"message"`
	Violations []entry.FieldViolation `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{Kind: "bad_request", Message: msg}})
}

func internalError(w http.ResponseWriter, err error) {
	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{Kind: "internal", Message: err.Error()}})
}

// writeError maps pipeline failures to status codes by error kind.
func writeError(w http.ResponseWriter, err error) {
	var ierr *entry.Error
	if !errors.As(err, &ierr) {
		internalError(w, err)
		return
	}
	slog.Warn("interpretation failed", "kind", ierr.Kind, "error", ierr)
	writeJSON(w, statusForKind(ierr.Kind), errorResponse{Error: errorBody{
		Kind:       string(ierr.Kind),
		Message:    ierr.Message,
		Violations: ierr.Violations,
	}})
}

func statusForKind(kind entry.ErrorKind) int {
	switch kind {
	case entry.ErrExtractionIncomplete:
		return http.StatusUnprocessableEntity
	case entry.ErrUnsupportedIntent:
		return http.StatusBadRequest
	case entry.ErrMalformedOutput, entry.ErrSchemaViolation, entry.ErrInferenceUnavailable:
		return http.StatusBadGateway
	case entry.ErrTranscriptionUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
