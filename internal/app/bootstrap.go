package service

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/okian/cinedle/internal/domain/model"
	"github.com/okian/cinedle/internal/domain/target"
	"github.com/okian/cinedle/pkg/logger"
	"github.com/okian/cinedle/pkg/metrics"
)

// targetBootstrap picks the round target from the popular listing. The
// supervisor restarts it until it succeeds; after that it never runs again.
type targetBootstrap struct {
	provider Provider
	cell     *target.Cell
	category model.Category
	logger   logger.Logger
}

// Serve implements suture.Service.
func (b *targetBootstrap) Serve(ctx context.Context) error {
	if b.cell.Ready() {
		return suture.ErrDoNotRestart
	}
	list, err := b.provider.Popular(ctx, b.category)
	if err != nil {
		b.logger.Warn(ctx, "target bootstrap failed", logger.Error(err))
		return fmt.Errorf("fetch popular %s: %w", b.category, err)
	}
	if len(list) == 0 {
		return fmt.Errorf("popular %s listing is empty", b.category)
	}
	if err := b.cell.Set(list[0]); err != nil {
		return suture.ErrDoNotRestart
	}
	metrics.SetTargetReady(true)
	b.logger.Info(ctx, "target selected",
		logger.Int("id", int(list[0].ID)),
		logger.String("category", b.category.String()))
	return suture.ErrDoNotRestart
}

// String names the service in supervisor events.
func (b *targetBootstrap) String() string { return "target-bootstrap" }
