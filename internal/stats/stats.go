// Package stats keeps lifetime cleanup totals across runs.
package stats

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Totals are the lifetime counters.
type Totals struct {
	Files int64
	Bytes int64
}

// Run is one recorded cleanup.
type Run struct {
	At    time.Time
	Root  string
	Files int64
	Bytes int64
}

// Store persists totals and the run history.
type Store interface {
	Totals(ctx context.Context) (Totals, error)
	// Record adds run to the history and to the totals atomically.
	Record(ctx context.Context, run Run) error
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Tracker caches the lifetime totals in memory and writes every update
// through to its store. A Tracker without a store only counts in memory.
type Tracker struct {
	mu     sync.Mutex
	store  Store
	totals Totals
	now    func() time.Time
}

// Load reads the persisted totals. A nil store yields an in-memory tracker.
func Load(ctx context.Context, store Store) (*Tracker, error) {
	t := &Tracker{store: store, now: time.Now}
	if store == nil {
		return t, nil
	}
	totals, err := store.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lifetime totals: %w", err)
	}
	t.totals = totals
	return t, nil
}

// AddCleaned adds a cleanup to the totals and persists it. The in-memory
// totals are updated even when persisting fails.
func (t *Tracker) AddCleaned(ctx context.Context, root string, files int, bytes int64) error {
	if files <= 0 {
		return nil
	}

	t.mu.Lock()
	t.totals.Files += int64(files)
	t.totals.Bytes += bytes
	store := t.store
	run := Run{At: t.now(), Root: root, Files: int64(files), Bytes: bytes}
	t.mu.Unlock()

	if store == nil {
		return nil
	}
	if err := store.Record(ctx, run); err != nil {
		return fmt.Errorf("record cleanup: %w", err)
	}
	return nil
}

// Totals returns the cached lifetime totals.
func (t *Tracker) Totals() Totals {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totals
}

// Recent returns the newest runs from the store, or nothing without one.
func (t *Tracker) Recent(ctx context.Context, limit int) ([]Run, error) {
	if t.store == nil {
		return nil, nil
	}
	return t.store.Recent(ctx, limit)
}
