// Package service wires the feedback engine, the round target and the
// metadata provider into the operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/okian/cinedle/internal/domain/feedback"
	"github.com/okian/cinedle/internal/domain/model"
	"github.com/okian/cinedle/internal/domain/target"
	"github.com/okian/cinedle/pkg/logger"
	"github.com/okian/cinedle/pkg/metrics"
)

// Provider resolves titles into entities. It must be safe for concurrent use.
type Provider interface {
	// Search returns the first hit as listed.
	Search(ctx context.Context, query string, category model.Category) (model.Entity, error)
	// Resolve returns the first hit that carries every scored attribute.
	Resolve(ctx context.Context, query string, category model.Category) (model.Entity, error)
	Popular(ctx context.Context, category model.Category) ([]model.Entity, error)
}

// Comparison is the outcome of one guess.
type Comparison struct {
	Guess  model.Entity
	Result feedback.Result
}

// Service implements the API dependencies for one round of the game.
type Service struct {
	mu sync.RWMutex

	// Core components
	provider Provider
	target   *target.Cell

	// Configuration
	category       model.Category
	targetWait     time.Duration
	failureBackoff time.Duration
	slog           *slog.Logger

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	done      <-chan error

	comparisons atomic.Int64
	searches    atomic.Int64
	notFound    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the metadata provider.
func WithProvider(p Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithCategory sets the category the target is drawn from and guesses are searched in.
func WithCategory(c model.Category) Option {
	return func(s *Service) {
		if c != "" {
			s.category = c
		}
	}
}

// WithTargetWait bounds how long Compare waits for the target. Zero fails fast.
func WithTargetWait(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.targetWait = d
		}
	}
}

// WithFailureBackoff sets how long the supervisor pauses after repeated bootstrap failures.
func WithFailureBackoff(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.failureBackoff = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSlog sets the slog.Logger that receives supervisor events.
func WithSlog(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.slog = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		target:         target.New(),
		category:       model.CategoryMovie,
		targetWait:     2 * time.Second,
		failureBackoff: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start launches the supervisor that bootstraps the round target.
// It returns immediately; the target becomes available asynchronously.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.provider == nil {
		return ErrNoProvider
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.slog == nil {
		s.slog = logger.Slog()
	}

	s.logger.Info(ctx, "starting game service...", logger.String("category", s.category.String()))

	sup := suture.New("cinedle", suture.Spec{
		EventHook:        (&sutureslog.Handler{Logger: s.slog}).MustHook(),
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   s.failureBackoff,
		Timeout:          5 * time.Second,
	})
	sup.Add(&targetBootstrap{
		provider: s.provider,
		cell:     s.target,
		category: s.category,
		logger:   s.logger,
	})

	supCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = sup.ServeBackground(supCtx)
	s.started = true
	s.startedAt = time.Now()
	metrics.SetTargetReady(s.target.Ready())

	return nil
}

// Stop shuts down the supervisor and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping game service...")
	s.cancel()
	if err := <-s.done; err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Debug(context.Background(), "supervisor exited", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "game service stopped")
}

// Ready reports whether the round target is set.
func (s *Service) Ready() bool {
	return s.target.Ready()
}

// Category returns the category of the current round.
func (s *Service) Category() model.Category {
	return s.category
}

// Search returns the first record matching query in category c.
func (s *Service) Search(ctx context.Context, query string, c model.Category) (model.Entity, error) {
	if s.provider == nil {
		return model.Entity{}, ErrNoProvider
	}
	s.searches.Add(1)
	e, err := s.provider.Search(ctx, query, c)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.notFound.Add(1)
		}
		return model.Entity{}, err
	}
	return e, nil
}

// Compare resolves guess and scores it against the round target. It waits up
// to the configured target wait for the target before returning ErrNotReady.
func (s *Service) Compare(ctx context.Context, guess string) (Comparison, error) {
	guess = strings.TrimSpace(guess)
	if guess == "" {
		return Comparison{}, ErrEmptyGuess
	}
	if s.provider == nil {
		return Comparison{}, ErrNoProvider
	}

	tgt, err := s.awaitTarget(ctx)
	if err != nil {
		return Comparison{}, err
	}

	guessed, err := s.provider.Resolve(ctx, guess, tgt.Category)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.notFound.Add(1)
			metrics.RecordGuessNotFound()
		}
		return Comparison{}, err
	}

	res := feedback.Compare(guessed, tgt)
	s.comparisons.Add(1)
	metrics.RecordComparison()
	metrics.RecordSignal("year", res.Year.String())
	metrics.RecordSignal("genres", res.Genres.String())
	metrics.RecordSignal("rating", res.Rating.String())

	s.logger.Debug(ctx, "guess compared",
		logger.Int("guess_id", int(guessed.ID)),
		logger.String("year", res.Year.String()),
		logger.String("genres", res.Genres.String()),
		logger.String("rating", res.Rating.String()))

	return Comparison{Guess: guessed, Result: res}, nil
}

func (s *Service) awaitTarget(ctx context.Context) (model.Entity, error) {
	if tgt, err := s.target.Get(); err == nil {
		return tgt, nil
	}
	if s.targetWait <= 0 {
		metrics.RecordTargetWait("timeout")
		return model.Entity{}, ErrNotReady
	}
	wctx, cancel := context.WithTimeout(ctx, s.targetWait)
	defer cancel()
	tgt, err := s.target.Wait(wctx)
	if err != nil {
		metrics.RecordTargetWait("timeout")
		return model.Entity{}, err
	}
	metrics.RecordTargetWait("ready")
	return tgt, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"category":    s.category.String(),
		"target_set":  s.target.Ready(),
		"comparisons": s.comparisons.Load(),
		"searches":    s.searches.Load(),
		"not_found":   s.notFound.Load(),
	}
	if s.started {
		stats["uptime_seconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}
