package enrich

import (
	"sync"
	"time"
)

// RateLimiter enforces per-minute and per-day request ceilings with a
// sliding window, so enrichment can never run away with model spend.
type RateLimiter struct {
	perMinute int
	perDay    int

	mu       sync.Mutex
	requests []time.Time
	now      func() time.Time
}

// NewRateLimiter creates a limiter with the given ceilings. A ceiling of
// zero or less means unlimited for that window.
func NewRateLimiter(perMinute, perDay int) *RateLimiter {
	return &RateLimiter{
		perMinute: perMinute,
		perDay:    perDay,
		now:       time.Now,
	}
}

// Allow records a request if both windows have room and reports whether
// it was admitted.
func (l *RateLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if l.perDay > 0 && len(l.requests) >= l.perDay {
		return false
	}
	if l.perMinute > 0 {
		minuteAgo := now.Add(-time.Minute)
		recent := 0
		for i := len(l.requests) - 1; i >= 0; i-- {
			if l.requests[i].Before(minuteAgo) {
				break
			}
			recent++
		}
		if recent >= l.perMinute {
			return false
		}
	}

	l.requests = append(l.requests, now)
	return true
}

// prune drops requests older than the day window.
func (l *RateLimiter) prune(now time.Time) {
	dayAgo := now.Add(-24 * time.Hour)
	kept := l.requests[:0]
	for _, t := range l.requests {
		if !t.Before(dayAgo) {
			kept = append(kept, t)
		}
	}
	l.requests = kept
}
