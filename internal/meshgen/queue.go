// Package meshgen queues patch mesh requests from the LOD traversal and turns them into
// scene entities once per frame.
package meshgen

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/spacecraft/internal/logger"
	"github.com/Faultbox/spacecraft/internal/queue"
	"github.com/Faultbox/spacecraft/internal/terrain"
)

// DefaultQueueCapacity is the number of requests the queue holds when not configured.
const DefaultQueueCapacity = 10000

// ErrQueueFull is returned when a request does not fit. It is queue.ErrFull, so either
// name works with errors.Is.
var ErrQueueFull = queue.ErrFull

// Queue is the bounded request queue between the LOD traversal and the drain step.
// Any number of goroutines may schedule; one drains.
type Queue struct {
	q    *queue.Bounded[terrain.Request]
	warn *logger.Throttled
}

// NewQueue creates a queue holding at most capacity requests.
func NewQueue(capacity int) *Queue {
	return &Queue{
		q:    queue.NewBounded[terrain.Request](capacity),
		warn: logger.NewThrottled(logger.Named("meshgen"), time.Second),
	}
}

// Schedule enqueues r or fails with ErrQueueFull. It never blocks.
func (q *Queue) Schedule(r terrain.Request) error {
	if err := q.q.Push(r); err != nil {
		q.overflow(err, r.Kind.String(), 1)
		return fmt.Errorf("scheduling %s for %s: %w", r.Kind, r.Ref, err)
	}
	instrumentQueueDepth(q.q.Len())
	return nil
}

// ScheduleBatch enqueues all of rs in order or none of them.
func (q *Queue) ScheduleBatch(rs ...terrain.Request) error {
	if len(rs) == 0 {
		return nil
	}
	if err := q.q.PushBatch(rs...); err != nil {
		q.overflow(err, rs[0].Kind.String(), len(rs))
		return fmt.Errorf("scheduling %d requests: %w", len(rs), err)
	}
	instrumentQueueDepth(q.q.Len())
	return nil
}

func (q *Queue) overflow(err error, kind string, n int) {
	instrumentOverflow(kind, n)
	q.warn.Warn("mesh queue rejected requests",
		zap.String("kind", kind),
		zap.Int("count", n),
		zap.Int("pending", q.q.Len()),
		zap.Int("capacity", q.q.Cap()),
		zap.Error(err),
	)
}

// Drain removes up to max requests in FIFO order. max <= 0 takes everything.
func (q *Queue) Drain(max int) []terrain.Request {
	out := q.q.Drain(max)
	instrumentQueueDepth(q.q.Len())
	return out
}

// Len returns the number of pending requests.
func (q *Queue) Len() int {
	return q.q.Len()
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return q.q.Cap()
}
