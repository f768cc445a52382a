package tmdb

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/cinedle/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	ErrNotFound       = fmt.Errorf("no matching provider record: %w", model.ErrNotFound)
	ErrProvider       = errors.New("metadata provider failure")
	ErrInvalidRecord  = errors.New("invalid provider record")
	ErrAPIKeyRequired = errors.New("tmdb api key required")
)

// StatusError reports a non-2xx provider response.
type StatusError struct {
	Op         string
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s returned %d (latency=%v)", e.Op, e.StatusCode, e.Latency)
}

// Unwrap lets callers match ErrProvider.
func (e *StatusError) Unwrap() error { return ErrProvider }

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
