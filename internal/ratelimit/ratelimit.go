// Package ratelimit implements an in-memory sliding-window request
// limiter keyed by source address. It is a soft, single-process
// throttle: state is lost on restart and never shared across nodes.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults for the gateway-wide limiter.
const (
	DefaultWindow = time.Minute
	DefaultLimit  = 100
)

// Limiter tracks request timestamps per source address within a
// trailing window. Check-and-record is atomic under a single lock, so
// two concurrent requests from the same address cannot both slip past
// the limit with a stale count.
//
// Entries for an address are pruned lazily but the address itself is
// never evicted; memory grows with address cardinality.
type Limiter struct {
	window time.Duration
	limit  int
	now    func() time.Time

	mu   sync.Mutex
	seen map[string][]time.Time
}

// New creates a Limiter with the given window and per-window limit.
func New(window time.Duration, limit int) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Limiter{
		window: window,
		limit:  limit,
		now:    time.Now,
		seen:   make(map[string][]time.Time),
	}
}

// Allow checks the address against the limit and, when admitted,
// records the request. Rejected requests are not recorded.
func (l *Limiter) Allow(addr string) bool {
	now := l.now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamps := l.seen[addr]

	// Drop everything older than the window start. Timestamps are
	// appended in order, so the first recent one marks the cut.
	cut := 0
	for cut < len(timestamps) && !timestamps[cut].After(windowStart) {
		cut++
	}
	recent := timestamps[cut:]

	if len(recent) >= l.limit {
		l.seen[addr] = recent
		return false
	}

	l.seen[addr] = append(recent, now)
	return true
}

// Limit returns the configured per-window request limit.
func (l *Limiter) Limit() int {
	return l.limit
}

// Window returns the configured window duration.
func (l *Limiter) Window() time.Duration {
	return l.window
}
