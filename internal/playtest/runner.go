package playtest

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/cinedle/pkg/logger"
)

// Outcome is the result of one guess.
type Outcome struct {
	Guess    string
	Feedback Feedback
	Err      error
	Took     time.Duration
}

// Run sends every guess concurrently and writes a table of outcomes to w.
// Per-guess failures are reported in the table; Run only fails when every
// guess failed or ctx ended.
func Run(ctx context.Context, cfg *Config, w io.Writer) ([]Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("playtest")
	log.Debug(ctx, "starting playtest",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("guesses", len(cfg.Guesses)),
		logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg)
	outcomes := make([]Outcome, len(cfg.Guesses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, guess := range cfg.Guesses {
		g.Go(func() error {
			start := time.Now()
			fb, err := client.Compare(gctx, guess)
			outcomes[i] = Outcome{Guess: guess, Feedback: fb, Err: err, Took: time.Since(start)}
			if err != nil {
				log.Debug(gctx, "guess failed", logger.String("guess", guess), logger.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	if _, err := io.WriteString(w, renderOutcomes(outcomes, cfg.Color)+"\n"); err != nil {
		return outcomes, fmt.Errorf("failed to write results: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	for _, o := range outcomes {
		if o.Err == nil {
			return outcomes, nil
		}
	}
	return outcomes, fmt.Errorf("all %d guesses failed: %w", len(outcomes), outcomes[0].Err)
}
