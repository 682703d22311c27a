// Package ratelimit guards the manual refresh endpoint. The limiter is owned
// by the handler layer; the scrape pipeline itself stays stateless.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows one event per minimum interval. The clock is injectable for
// tests.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     time.Time
}

func New(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		now:      time.Now,
	}
}

// NewWithClock builds a limiter with a custom time source.
func NewWithClock(interval time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		interval: interval,
		now:      now,
	}
}

// Allow consumes the slot when the interval has elapsed. When denied it
// returns the remaining wait.
func (l *Limiter) Allow() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !l.last.IsZero() {
		if elapsed := now.Sub(l.last); elapsed < l.interval {
			return false, l.interval - elapsed
		}
	}
	l.last = now
	return true, 0
}
