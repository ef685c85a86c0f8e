// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/somnolab/sleepq/internal/adapters/classifier"
	"github.com/somnolab/sleepq/internal/domain/model"
	"github.com/somnolab/sleepq/internal/domain/score"
	"github.com/somnolab/sleepq/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Evaluate runs the full pipeline for one observation.
	Evaluate(ctx context.Context, o model.Observation) (types.Result, error)

	// EvaluateBatch evaluates an ordered sequence of observations; output
	// row i corresponds to input row i.
	EvaluateBatch(ctx context.Context, rows []model.Observation) ([]types.BatchRow, error)

	// Ready reports whether the trained classifier is loaded.
	Ready() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	predictHandler *PredictHandler
	batchHandler   *BatchHandler
	metricsHandler http.Handler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		predictHandler: NewPredictHandler(deps),
		batchHandler:   NewBatchHandler(deps),
		metricsHandler: newMetricsHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/predict/batch", MetricsMiddleware(s.batchHandler.HandleBatch, "predict_batch"))
	mux.Handle("/metrics", s.metricsHandler)
}

// predictRequest mirrors the inbound observation schema. Optional fields
// are pointers so absence is distinguishable from zero; the defaults
// policy fills them downstream.
type predictRequest struct {
	Age                     int      `json:"age"`
	Gender                  string   `json:"gender"`
	SleepDuration           float64  `json:"sleep_duration"`
	DailySteps              *float64 `json:"daily_steps"`
	PhysicalActivityMinutes *float64 `json:"physical_activity_minutes"`
	ScreenTimeMinutes       *float64 `json:"screen_time_minutes"`
	StressLevel             *float64 `json:"stress_level"`
	BMICategory             string   `json:"bmi_category"`
}

func (r predictRequest) validate() error {
	switch {
	case r.Age < 0:
		return errors.New("age must be non-negative")
	case r.SleepDuration <= 0:
		return errors.New("sleep_duration must be positive")
	case math.IsNaN(r.SleepDuration) || math.IsInf(r.SleepDuration, 0):
		return errors.New("sleep_duration must be a finite number")
	}
	return nil
}

func (r predictRequest) observation() model.Observation {
	return model.Observation{
		Age:                     r.Age,
		Gender:                  r.Gender,
		SleepDuration:           r.SleepDuration,
		DailySteps:              r.DailySteps,
		PhysicalActivityMinutes: r.PhysicalActivityMinutes,
		ScreenTimeMinutes:       r.ScreenTimeMinutes,
		StressLevel:             r.StressLevel,
		BMICategory:             r.BMICategory,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeEvaluationError translates pipeline errors to HTTP status codes.
func writeEvaluationError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, classifier.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, "model_unavailable", WrapKind(op, ErrModelNotReady, err))
	case errors.Is(err, score.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
