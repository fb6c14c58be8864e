// Package queue provides a bounded FIFO shared by many producers and drained by one
// consumer.
package queue

import (
	"errors"
	"sync"
)

var (
	// ErrFull is returned when a push does not fit in the remaining capacity.
	ErrFull = errors.New("queue full")

	// ErrBatchTooLarge is returned when a batch exceeds the total capacity and could
	// never be accepted.
	ErrBatchTooLarge = errors.New("batch larger than queue capacity")
)

// Bounded is a fixed-capacity ring buffer guarded by a mutex. Pushes never block.
type Bounded[T any] struct {
	mu   sync.Mutex
	buf  []T
	head int
	size int
}

// NewBounded returns a queue holding at most capacity items.
func NewBounded[T any](capacity int) *Bounded[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Bounded[T]{buf: make([]T, capacity)}
}

// Push appends v or returns ErrFull.
func (q *Bounded[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == len(q.buf) {
		return ErrFull
	}
	q.put(v)
	return nil
}

// PushBatch appends all of vs in order, or none of them.
func (q *Bounded[T]) PushBatch(vs ...T) error {
	if len(vs) > len(q.buf) {
		return ErrBatchTooLarge
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf)-q.size < len(vs) {
		return ErrFull
	}
	for _, v := range vs {
		q.put(v)
	}
	return nil
}

func (q *Bounded[T]) put(v T) {
	q.buf[(q.head+q.size)%len(q.buf)] = v
	q.size++
}

// Drain removes up to max items in arrival order. max <= 0 drains everything.
// Drained slots are zeroed so the queue keeps no references to them.
func (q *Bounded[T]) Drain(max int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		return nil
	}
	n := q.size
	if max > 0 && max < n {
		n = max
	}
	var zero T
	out := make([]T, n)
	for i := range out {
		idx := (q.head + i) % len(q.buf)
		out[i] = q.buf[idx]
		q.buf[idx] = zero
	}
	q.head = (q.head + n) % len(q.buf)
	q.size -= n
	return out
}

// Len returns the number of queued items.
func (q *Bounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the capacity.
func (q *Bounded[T]) Cap() int {
	return len(q.buf)
}
