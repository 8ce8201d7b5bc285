package ratelimit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/deptnews/internal/app/system/ratelimit"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := ratelimit.NewWithClock(3, time.Minute, c.now)

	for i := 0; i < 3; i++ {
		if !l.Allow("cse-desk") {
			t.Fatalf("attempt %d denied", i+1)
		}
	}
	if l.Allow("cse-desk") {
		t.Error("4th attempt allowed")
	}
	if got := l.Remaining("cse-desk"); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
	if !l.Allow("ece-desk") {
		t.Error("other key should be independent")
	}
}

func TestLimiter_KeysAreCaseFolded(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := ratelimit.NewWithClock(1, time.Minute, c.now)

	l.Allow("Admin")
	if l.Allow("ADMIN") {
		t.Error("case variant bypassed the limit")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := ratelimit.NewWithClock(1, time.Minute, c.now)

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second attempt allowed inside window")
	}
	c.t = c.t.Add(61 * time.Second)
	if !l.Allow("k") {
		t.Error("attempt denied after window expired")
	}
}

func TestLimiter_ResetAndSweep(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := ratelimit.NewWithClock(1, time.Minute, c.now)

	l.Allow("a")
	l.Reset("a")
	if got := l.Remaining("a"); got != 1 {
		t.Errorf("Remaining after Reset = %d, want 1", got)
	}

	l.Allow("b")
	c.t = c.t.Add(2 * time.Minute)
	l.Sweep()
	if got := l.Len(); got != 0 {
		t.Errorf("Len after sweep = %d, want 0", got)
	}
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := ratelimit.New(5, time.Minute)
	l.Stop()
	l.Stop()
}
