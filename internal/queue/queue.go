// Package queue provides the in-process task ingress for the worker loop.
package queue

import (
	"sync"
	"time"

	"github.com/cgartco6/asset-engine/internal/model"
)

// Queue is an unbounded thread-safe FIFO. Enqueue never blocks the
// submitter; DequeueWait blocks the single consumer up to a timeout so the
// worker loop can interleave periodic jobs while idle.
type Queue struct {
	mu     sync.Mutex
	items  []model.Task
	signal chan struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

// Enqueue appends a task and wakes a waiting consumer.
func (q *Queue) Enqueue(t model.Task) {
	q.mu.Lock()
	q.items = append(q.items, t)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// DequeueWait removes and returns the oldest task. It waits up to timeout
// for one to arrive and reports false when none did. Designed for a single
// consumer, matching the one-worker engine model.
func (q *Queue) DequeueWait(timeout time.Duration) (model.Task, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			t := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return t, true
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-deadline.C:
			return model.Task{}, false
		}
	}
}

// Len reports the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
