// Package testutil holds deterministic stand-ins for the clock and ID
// sources used by the harness and the build orchestrator.
package testutil

import "sync/atomic"

// DeterministicClock is a monotonic logical clock for tests.
//
// It satisfies the Clock interfaces of package harness and package
// artifact, and unlike those production clocks it can be reset so the same
// scenario run twice yields identical sequence numbers.
//
// Thread-safety: all methods are safe for concurrent use.
type DeterministicClock struct {
	seq atomic.Int64
}

// NewDeterministicClock creates a clock at 0. The first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next advances the clock and returns the new value.
func (c *DeterministicClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current value without advancing.
func (c *DeterministicClock) Current() int64 {
	return c.seq.Load()
}

// Reset sets the clock back to 0.
func (c *DeterministicClock) Reset() {
	c.seq.Store(0)
}
