package logger

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Throttled writes at most one entry per interval and counts what it swallowed. The
// next entry that gets through carries the count in a "suppressed" field.
type Throttled struct {
	log        *zap.Logger
	limiter    *rate.Limiter
	suppressed atomic.Int64
}

// NewThrottled wraps l. A zero interval disables throttling.
func NewThrottled(l *zap.Logger, every time.Duration) *Throttled {
	limit := rate.Inf
	if every > 0 {
		limit = rate.Every(every)
	}
	return &Throttled{
		log:     l,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Warn logs at warn level if the limiter allows it.
func (t *Throttled) Warn(msg string, fields ...zap.Field) bool {
	if !t.limiter.Allow() {
		t.suppressed.Add(1)
		return false
	}
	if n := t.suppressed.Swap(0); n > 0 {
		fields = append(fields, zap.Int64("suppressed", n))
	}
	t.log.Warn(msg, fields...)
	return true
}

// Suppressed returns how many entries are waiting to be reported.
func (t *Throttled) Suppressed() int64 {
	return t.suppressed.Load()
}
