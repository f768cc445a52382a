package service

import (
	"errors"

	"github.com/okian/cinedle/internal/domain/model"
	"github.com/okian/cinedle/internal/domain/target"
)

// Sentinel error kinds surfaced by the service.
var (
	// ErrNotFound means a searched or guessed title did not resolve.
	ErrNotFound = model.ErrNotFound
	// ErrNotReady means the round target is not set yet.
	ErrNotReady = target.ErrNotReady
	// ErrEmptyGuess means the guessed title was blank.
	ErrEmptyGuess = errors.New("guessed title must not be empty")
	// ErrNoProvider means Start was called without a metadata provider.
	ErrNoProvider = errors.New("metadata provider not configured")
)
