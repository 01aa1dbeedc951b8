// Package timeutil lets run timestamps and timings come from a replaceable
// source.
package timeutil

import (
	"sync"
	"time"
)

// Clock reports the current time and elapsed durations.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time                  { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// SteppingClock is a deterministic clock. Each Now call moves it forward by
// its step and returns the new reading; Since measures against the last
// reading without moving it. A zero step gives a frozen clock.
type SteppingClock struct {
	mu   sync.Mutex
	at   time.Time
	step time.Duration
}

// NewSteppingClock starts a SteppingClock at start.
func NewSteppingClock(start time.Time, step time.Duration) *SteppingClock {
	return &SteppingClock{at: start, step: step}
}

// NewFrozenClock returns a SteppingClock that always reads at.
func NewFrozenClock(at time.Time) *SteppingClock {
	return NewSteppingClock(at, 0)
}

func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(c.step)
	return c.at
}

func (c *SteppingClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at.Sub(t)
}

// Jump moves the clock by d without a Now call.
func (c *SteppingClock) Jump(d time.Duration) {
	c.mu.Lock()
	c.at = c.at.Add(d)
	c.mu.Unlock()
}
