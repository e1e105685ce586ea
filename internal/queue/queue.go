// Package queue implements the shared FIFO of pending render tasks.
//
// The queue is unbounded and safe for one producer and many consumers.
// Blocking and wake-up are built on a notification channel instead of
// the usual condition variable, so consumers can also wait on context
// cancellation in the same select.
package queue

import (
	"context"
	"sync"

	"github.com/mkarpenko/assetconv/internal/model"
)

// Queue is an unbounded FIFO of tasks shared by one producer and N
// worker goroutines. The zero value is not usable; call New.
type Queue struct {
	mu     sync.Mutex
	items  []model.Task
	closed bool

	notify chan struct{} // signals "an item may be available"
	done   chan struct{} // closed by Close
}

// New creates an empty open queue.
func New() *Queue {
	return &Queue{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Enqueue appends a task to the tail and wakes a waiting consumer.
// It never blocks. Enqueueing on a closed queue reports false and the
// task is dropped.
func (q *Queue) Enqueue(t model.Task) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, t)
	q.mu.Unlock()

	q.wake()
	return true
}

// Dequeue removes and returns the head of the queue, blocking until a
// task is available. It returns ok=false when the context is canceled,
// or when the queue has been closed and fully drained. Remaining items
// of a closed queue are still handed out in FIFO order.
func (q *Queue) Dequeue(ctx context.Context) (model.Task, bool) {
	for {
		// Cancellation wins over pending work: a canceled consumer must
		// not start another task even if the queue is non-empty.
		if ctx.Err() != nil {
			return model.Task{}, false
		}

		q.mu.Lock()
		if len(q.items) > 0 {
			t := q.items[0]
			q.items = q.items[1:]
			remaining := len(q.items)
			q.mu.Unlock()

			// A single buffered signal can be consumed by one waiter
			// while more items sit in the queue; pass it on.
			if remaining > 0 {
				q.wake()
			}
			return t, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return model.Task{}, false
		}

		select {
		case <-q.notify:
		case <-q.done:
		case <-ctx.Done():
			return model.Task{}, false
		}
	}
}

// Close marks the queue as closed. No further tasks are accepted;
// consumers drain what is left and then see ok=false. Close is
// idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Len reports the number of tasks currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
