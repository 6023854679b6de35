// Package testutil provides deterministic stand-ins for the engine's
// ambient inputs: wall-clock time and unique tokens. Tests that compare
// traces or golden files need both to be reproducible.
package testutil

import (
	"sync"
	"time"
)

// FixedClock returns a scripted sequence of timestamps.
//
// Each call to Now advances by the configured step, so entries logged in
// sequence get distinct, ordered, reproducible timestamps.
//
// Thread-safety: all methods are safe for concurrent use.
type FixedClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewFixedClock creates a clock starting at the given instant.
// Each Now call advances the clock by step (zero step freezes time).
func NewFixedClock(start time.Time, step time.Duration) *FixedClock {
	return &FixedClock{now: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Set repositions the clock. Used between test phases.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
