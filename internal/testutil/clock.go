package testutil

import (
	"sync"
	"time"
)

// StepClock is a deterministic wall clock for tests.
//
// Every call to Now returns the previous time plus Step, starting at Base.
// The same sequence of calls always yields the same timestamps, so stored
// records and golden output stay byte-identical across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	n    int64
}

// NewStepClock creates a clock starting at 2025-01-01T00:00:00Z that advances
// one second per call.
func NewStepClock() *StepClock {
	return &StepClock{
		base: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		step: time.Second,
	}
}

// Now returns the next timestamp.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.base.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Reset rewinds the clock so the next Now returns the base time.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
