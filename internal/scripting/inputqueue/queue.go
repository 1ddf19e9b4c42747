// Package inputqueue buffers interactive input lines for the running script.
package inputqueue

import (
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// Queue is an ordered, goroutine-safe buffer of pending code lines. Producers
// only append; the running script drains it.
type Queue struct {
	mu    sync.Mutex
	lines *linkedlistqueue.Queue
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{lines: linkedlistqueue.New()}
}

// Push appends a line.
func (q *Queue) Push(code string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lines.Enqueue(code)
}

// Drain removes and returns every queued line in arrival order.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]string, 0, q.lines.Size())
	for {
		v, ok := q.lines.Dequeue()
		if !ok {
			return out
		}
		out = append(out, v.(string))
	}
}

// Clear discards all queued lines and returns how many were dropped.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.lines.Size()
	q.lines.Clear()
	return n
}

// Len returns the number of queued lines.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lines.Size()
}
