package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/cinedle/internal/domain/model"
)

// SearchDependencies defines the interface for title lookups.
type SearchDependencies interface {
	Search(ctx context.Context, query string, category model.Category) (model.Entity, error)
}

// SearchHandler handles search requests.
type SearchHandler struct {
	deps SearchDependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandleSearch handles GET /api/search?query=...&type=movie|tv requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	ctx := r.Context()

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeFailure(ctx, w, WrapKind(op, ErrBadRequest, errMissing("query")), "")
		return
	}
	category, err := model.ParseCategory(r.URL.Query().Get("type"))
	if err != nil {
		writeFailure(ctx, w, WrapKind(op, ErrBadRequest, err), "")
		return
	}

	entity, err := h.deps.Search(ctx, query, category)
	if err != nil {
		writeFailure(ctx, w, Wrap(op, err), "No results found")
		return
	}
	writeJSON(w, http.StatusOK, entity)
}
