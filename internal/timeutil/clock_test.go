package timeutil

import (
	"testing"
	"time"
)

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	start := c.Now()
	if c.Since(start) < 0 {
		t.Error("Since returned a negative duration")
	}
}

func TestFrozenClock(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFrozenClock(base)

	if got := c.Now(); !got.Equal(base) {
		t.Errorf("Now() = %v, want %v", got, base)
	}
	if got := c.Now(); !got.Equal(base) {
		t.Errorf("second Now() = %v, want %v", got, base)
	}
	c.Jump(time.Minute)
	if got := c.Since(base); got != time.Minute {
		t.Errorf("Since() after Jump = %v, want 1m", got)
	}
}

func TestSteppingClock(t *testing.T) {
	base := time.Unix(1700000000, 0)
	c := NewSteppingClock(base, time.Second)

	first := c.Now()
	second := c.Now()
	if !first.Equal(base.Add(time.Second)) {
		t.Errorf("first Now() = %v, want %v", first, base.Add(time.Second))
	}
	if second.Sub(first) != time.Second {
		t.Errorf("step = %v, want 1s", second.Sub(first))
	}
	if got := c.Since(base); got != 2*time.Second {
		t.Errorf("Since() = %v, want 2s", got)
	}
}
