package mock

import (
	"sync"
	"time"
)

// Time is a clock that stands still until a step moves it.
type Time struct {
	mu  sync.RWMutex
	now time.Time
}

// NewTime creates a clock reading now.
func NewTime(now time.Time) *Time {
	return &Time{now: now}
}

// SetCurrentTime moves the clock to t.
func (t *Time) SetCurrentTime(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// Advance moves the clock forward by d.
func (t *Time) Advance(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = t.now.Add(d)
}

// Now returns the current reading.
func (t *Time) Now() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.now
}
