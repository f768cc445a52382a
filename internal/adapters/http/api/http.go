// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	service "github.com/okian/cinedle/internal/app"
	"github.com/okian/cinedle/internal/domain/model"
	"github.com/okian/cinedle/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SearchDependencies
	CompareDependencies
	ReadinessProvider
}

// Server wires HTTP routes for the game API.
type Server struct {
	healthHandler  *HealthHandler
	readyHandler   *ReadyHandler
	statsHandler   *StatsHandler
	searchHandler  *SearchHandler
	compareHandler *CompareHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		readyHandler:   NewReadyHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		searchHandler:  NewSearchHandler(deps),
		compareHandler: NewCompareHandler(deps),
	}
}

// Register attaches all API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/readyz", MetricsMiddleware(s.readyHandler.HandleReady, "readyz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/api/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	r.Get("/api/compare", MetricsMiddleware(s.compareHandler.HandleCompare, "compare"))
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

// writeFailure maps err onto the error taxonomy. Internal causes are logged
// and replaced by a generic message so provider details never reach clients.
func writeFailure(ctx context.Context, w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", errors.New(notFoundMsg))
	case errors.Is(err, service.ErrNotReady):
		writeError(w, http.StatusInternalServerError, "target_not_ready", errors.New("Target movie is not set yet"))
	default:
		logger.Named("api").Error(ctx, "request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
	}
}
