// Package site serves the plaintext banner at the service root.
package site

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Banner is the body returned by GET /.
const Banner = "TV Show & Movie Quiz App Backend is running!"

// Register attaches the root route to r.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/", NewRootHandler().HandleRoot)
}

// RootHandler handles root path requests.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests with a liveness banner.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(Banner))
}
