package telemetry

import (
	"sync"
	"time"
)

// RateLimiter allows at most one event per interval; it is used to keep a
// failing analyzer or a flapping callback from flooding the logs.
type RateLimiter struct {
	interval time.Duration
	mu       sync.Mutex
	last     time.Time
}

// NewRateLimiter creates a limiter that allows one Allow() call per
// interval.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{interval: interval}
}

// Allow reports whether an event may proceed right now, and if so records
// the time so subsequent calls within interval are suppressed.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if now.Sub(r.last) < r.interval {
		return false
	}
	r.last = now
	return true
}
