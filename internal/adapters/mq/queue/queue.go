// Package queue defines the contract for enqueuing and consuming
// outbound notifications.
//
// Implementations may use channels or more advanced structures. The bot
// runs on an in-memory bounded queue.
package queue

import (
	"context"
	"sync"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/pkg/metrics"
)

// defaultCapacity bounds the queue when no option overrides it.
const defaultCapacity = 1024

// Notification is the payload type flowing through the queue.
type Notification = model.Notification

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a notification to the queue.
	// Returns false if the queue is full or closed and nothing was enqueued.
	Enqueue(ctx context.Context, n Notification) bool

	// Dequeue returns a channel that receives notifications as they
	// become available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Notification

	// Len returns the current number of queued notifications.
	Len(ctx context.Context) int

	// Close shuts down the queue. After closing, nothing can be enqueued
	// and the dequeue channel drains and closes.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	notifications chan Notification
	capacity      int
	mu            sync.RWMutex
	closed        bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.notifications = make(chan Notification, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a notification to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, n Notification) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.notifications <- n:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.notifications))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		metrics.RecordQueueEnqueueError()
		return false // queue is full
	}
}

// Dequeue returns a channel that receives notifications as they become
// available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Notification {
	out := make(chan Notification)
	go func() {
		defer close(out)
		for n := range q.notifications {
			select {
			case out <- n:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.notifications))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued notifications.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.notifications)
	metrics.UpdateQueueSize(size)
	return size
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.notifications)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
