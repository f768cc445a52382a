package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/cinedle/pkg/metrics"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})}
}

// HandleHealth handles GET /healthz requests by serving the service metrics.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// ReadinessProvider reports whether the round target is set.
type ReadinessProvider interface {
	Ready() bool
}

type readyResponse struct {
	Status    string `json:"status"`
	TargetSet bool   `json:"target_set"`
}

// ReadyHandler handles readiness probes.
type ReadyHandler struct {
	deps ReadinessProvider
}

// NewReadyHandler creates a new readiness handler.
func NewReadyHandler(deps ReadinessProvider) *ReadyHandler {
	return &ReadyHandler{deps: deps}
}

// HandleReady handles GET /readyz requests.
func (h *ReadyHandler) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if !h.deps.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, readyResponse{Status: "waiting_for_target"})
		return
	}
	writeJSON(w, http.StatusOK, readyResponse{Status: "ready", TargetSet: true})
}
