package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	service "github.com/okian/cinedle/internal/app"
	"github.com/okian/cinedle/internal/domain/feedback"
)

// CompareDependencies defines the interface for scoring a guess.
type CompareDependencies interface {
	Compare(ctx context.Context, guess string) (service.Comparison, error)
}

// Color tokens rendered for each signal.
const (
	colorExact   = "green"
	colorPartial = "yellow"
	colorNone    = "gray"

	notImplemented = "to be implemented"
)

// compareResponse is the wire shape of a comparison.
type compareResponse struct {
	Year     string `json:"year"`
	Genres   string `json:"genres"`
	Rating   string `json:"rating"`
	Director string `json:"director"`
	Stars    string `json:"stars"`
	Type     string `json:"type"`
}

func color(s feedback.Signal) string {
	switch s {
	case feedback.Exact:
		return colorExact
	case feedback.Partial:
		return colorPartial
	default:
		return colorNone
	}
}

func capability(c feedback.Capability) string {
	if c == feedback.Unsupported {
		return notImplemented
	}
	return c.String()
}

func newCompareResponse(r feedback.Result) compareResponse {
	return compareResponse{
		Year:     color(r.Year),
		Genres:   color(r.Genres),
		Rating:   color(r.Rating),
		Director: capability(r.Director),
		Stars:    capability(r.Stars),
		Type:     r.Type.String(),
	}
}

// CompareHandler handles compare requests.
type CompareHandler struct {
	deps CompareDependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps CompareDependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// HandleCompare handles GET /api/compare?guessedMovie=... requests.
// A missing guess is rejected before the target or the provider is consulted.
func (h *CompareHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	ctx := r.Context()

	guess := strings.TrimSpace(r.URL.Query().Get("guessedMovie"))
	if guess == "" {
		writeFailure(ctx, w, WrapKind(op, ErrBadRequest, errMissing("guessedMovie")), "")
		return
	}

	res, err := h.deps.Compare(ctx, guess)
	if err != nil {
		if errors.Is(err, service.ErrEmptyGuess) {
			err = WrapKind(op, ErrBadRequest, err)
		}
		writeFailure(ctx, w, Wrap(op, err), "Guessed movie not found")
		return
	}
	writeJSON(w, http.StatusOK, newCompareResponse(res.Result))
}

func errMissing(param string) error {
	return fmt.Errorf("missing required query parameter %q", param)
}
