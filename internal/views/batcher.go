package views

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/metrics"
	"github.com/amaumene/streamhub/internal/models"
)

// ViewStore applies view-count increments to the content store
type ViewStore interface {
	IncrementViews(id uint64, delta int64) error
}

// Batcher accumulates per-item view increments in memory and writes them
// back to the store in periodic flush cycles
type Batcher struct {
	mu      sync.Mutex
	pending map[uint64]int64
	store   ViewStore
	logger  *logrus.Logger
}

// NewBatcher creates a view-count batcher writing through to store
func NewBatcher(store ViewStore, logger *logrus.Logger) *Batcher {
	return &Batcher{
		pending: make(map[uint64]int64),
		store:   store,
		logger:  logger,
	}
}

// RecordView registers one pending view for the given item. It never blocks
// on the store and never fails the caller.
func (b *Batcher) RecordView(id uint64) {
	b.mu.Lock()
	b.pending[id]++
	b.mu.Unlock()
	metrics.ViewsRecorded.Inc()
}

// Pending returns the number of items with pending increments
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush writes every positive pending increment to the store. Applied
// increments are subtracted from the accumulator so views recorded during
// the flush survive; failed increments stay pending for the next cycle
// (at-least-once, duplicates possible on partial failure). Returns the
// total number of views applied.
func (b *Batcher) Flush() int64 {
	b.mu.Lock()
	snapshot := make(map[uint64]int64, len(b.pending))
	for id, n := range b.pending {
		if n > 0 {
			snapshot[id] = n
		}
	}
	b.mu.Unlock()

	var applied int64
	for id, n := range snapshot {
		err := b.store.IncrementViews(id, n)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				// Item was deleted; retrying would never succeed
				b.logger.WithField("content_id", id).Warn("Dropping pending views for deleted content")
				b.discard(id)
				continue
			}
			b.logger.WithError(err).WithFields(logrus.Fields{
				"content_id": id,
				"pending":    n,
			}).Error("Failed to flush view counts, will retry next cycle")
			continue
		}

		b.settle(id, n)
		applied += n
		metrics.ViewsFlushed.Add(float64(n))
	}

	return applied
}

// settle subtracts an applied increment and prunes the entry once drained
func (b *Batcher) settle(id uint64, n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[id] -= n
	if b.pending[id] <= 0 {
		delete(b.pending, id)
	}
}

// discard removes an entry regardless of its pending count
func (b *Batcher) discard(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, id)
}
