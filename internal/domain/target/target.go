// Package target holds the round's target entity in a write-once cell.
//
// The cell starts unset. Exactly one Set succeeds; every later Set fails with
// ErrAlreadySet and the stored entity never changes. Readers either get the
// entity or ErrNotReady, never a zero value.
package target

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/cinedle/internal/domain/model"
)

// Cell is a single-assignment, many-reader holder for the target entity.
// The zero value is not usable; construct with New.
type Cell struct {
	value atomic.Pointer[model.Entity]
	once  sync.Once
	ready chan struct{}
}

// New returns an unset Cell.
func New() *Cell {
	return &Cell{ready: make(chan struct{})}
}

// Set stores e if the cell is still unset.
func (c *Cell) Set(e model.Entity) error {
	stored := false
	c.once.Do(func() {
		e.GenreIDs = append([]int(nil), e.GenreIDs...)
		c.value.Store(&e)
		close(c.ready)
		stored = true
	})
	if !stored {
		return ErrAlreadySet
	}
	return nil
}

// Get returns the target or ErrNotReady.
func (c *Cell) Get() (model.Entity, error) {
	p := c.value.Load()
	if p == nil {
		return model.Entity{}, ErrNotReady
	}
	return clone(*p), nil
}

// Wait blocks until the target is set or ctx is done. A done context yields
// ErrNotReady wrapping the context error.
func (c *Cell) Wait(ctx context.Context) (model.Entity, error) {
	if e, err := c.Get(); err == nil {
		return e, nil
	}
	select {
	case <-c.ready:
		return c.Get()
	case <-ctx.Done():
		return model.Entity{}, fmt.Errorf("%w: %w", ErrNotReady, ctx.Err())
	}
}

// Ready reports whether the target has been set.
func (c *Cell) Ready() bool {
	return c.value.Load() != nil
}

// Done returns a channel closed once the target is set.
func (c *Cell) Done() <-chan struct{} {
	return c.ready
}

// clone keeps callers from mutating the shared genre slice.
func clone(e model.Entity) model.Entity {
	e.GenreIDs = append([]int(nil), e.GenreIDs...)
	return e
}
