// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/somnolab/sleepq/pkg/metrics"
)

// ReadinessReporter exposes the classifier-loaded state.
type ReadinessReporter interface {
	Ready() bool
}

// healthResponse is the JSON shape returned by GET /healthz.
type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	readiness ReadinessReporter
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(readiness ReadinessReporter) *HealthHandler {
	return &HealthHandler{readiness: readiness}
}

// HandleHealth handles GET /healthz requests. The classifier-loaded state
// is part of the contract: orchestrators gate traffic on it, and the
// service refuses evaluation while it is false.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	loaded := h.readiness.Ready()
	status := "ok"
	code := http.StatusOK
	if !loaded {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, healthResponse{Status: status, ModelLoaded: loaded})
}

// newMetricsHandler serves the custom Prometheus registry on /metrics.
func newMetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
