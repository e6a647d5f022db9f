// Package dedupe tracks already-processed draw periods.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// defaultMaxSize bounds the tracker to several years of daily draws.
const defaultMaxSize = 4096

// Deduper records seen period identifiers so each draw is processed once
// per run even though the poller sees it on every tick.
type Deduper interface {
	// SeenAndRecord atomically checks whether seq was seen and records it
	// if not. Returns true if seq was already seen.
	SeenAndRecord(ctx context.Context, seq string) bool

	// Unrecord forgets seq so it can be retried. Used when a period was
	// marked seen but its processing failed downstream.
	Unrecord(ctx context.Context, seq string)

	Size() int64
}

// inMemoryDeduper keeps seen periods in a map. In bounded mode the order
// slice remembers insertion order and the oldest period is dropped when
// the bound is hit. The order slice may still hold periods already
// unrecorded; eviction skips those.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates an in-memory period tracker.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.order = make([]string, 0, d.maxSize)
	}

	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, seq string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[seq]; exists {
		return true
	}

	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.order = append(d.order, seq)
	}

	d.seen[seq] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, seq string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[seq]; !exists {
		return
	}
	delete(d.seen, seq)
	d.size.Add(-1)
}

// evictOldest drops the oldest still-recorded period. Must be called
// with d.mu held and len(d.seen) > 0.
func (d *inMemoryDeduper) evictOldest() {
	for len(d.order) > 0 {
		seq := d.order[0]
		d.order = d.order[1:]
		if _, exists := d.seen[seq]; exists {
			delete(d.seen, seq)
			d.size.Add(-1)
			return
		}
	}
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
