package ratelimit

import "time"

// NewWithClock builds a Limiter without a cleanup goroutine, driven by now.
func NewWithClock(limit int, duration time.Duration, now func() time.Time) *Limiter {
	return newLimiter(limit, duration, now)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Sweep runs one cleanup pass.
func (l *Limiter) Sweep() { l.sweep() }
