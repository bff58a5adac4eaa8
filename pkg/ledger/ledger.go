// Package ledger keeps per-event occurrence counters in the storage
// capability. Counters default to zero, grow by exactly one per recorded
// occurrence, and are only ever cleared by a full state reset.
package ledger

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/happyreview/happyreview-go/pkg/storage"
)

// Ledger counts named event occurrences.
type Ledger struct {
	store storage.Store
}

// New creates a ledger over the given store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// Record increments the counter for name and returns the new count.
// The increment is a read-modify-write; concurrent callers for the same name
// race (last writer wins). The engine serializes calls, so this only matters
// for integrators bypassing it.
func (l *Ledger) Record(ctx context.Context, name string) (int64, error) {
	key := storage.EventCountKey(name)
	count, err := l.store.GetInt(ctx, key, 0)
	if err != nil {
		return 0, err
	}
	count++
	if err := l.store.SetInt(ctx, key, count); err != nil {
		return 0, err
	}
	logrus.Debugf("event %q recorded, count now %d", name, count)
	return count, nil
}

// Count returns the current counter for name, zero if never recorded.
func (l *Ledger) Count(ctx context.Context, name string) (int64, error) {
	return l.store.GetInt(ctx, storage.EventCountKey(name), 0)
}
