package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_FirstCallAllowed(t *testing.T) {
	l := New(5 * time.Minute)
	allowed, wait := l.Allow()
	if !allowed {
		t.Fatal("first call should be allowed")
	}
	if wait != 0 {
		t.Errorf("wait = %v, want 0", wait)
	}
}

func TestLimiter_DeniesWithinInterval(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	l := NewWithClock(5*time.Minute, func() time.Time { return now })

	if allowed, _ := l.Allow(); !allowed {
		t.Fatal("first call should be allowed")
	}

	now = now.Add(2 * time.Minute)
	allowed, wait := l.Allow()
	if allowed {
		t.Fatal("call within interval should be denied")
	}
	if wait != 3*time.Minute {
		t.Errorf("wait = %v, want 3m", wait)
	}
}

func TestLimiter_AllowsAfterInterval(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	l := NewWithClock(5*time.Minute, func() time.Time { return now })

	l.Allow()
	now = now.Add(5 * time.Minute)

	if allowed, _ := l.Allow(); !allowed {
		t.Error("call after interval elapsed should be allowed")
	}
}
