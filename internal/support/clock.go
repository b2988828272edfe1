package support

import "time"

// Clock is a wrapping millisecond counter. Rollover is expected and handled
// by callers.
type Clock interface {
	Msecs() uint32
}

type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock { return &SystemClock{start: time.Now()} }

func (c *SystemClock) Msecs() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// StepClock is a manually advanced clock for simulations and tests.
type StepClock struct {
	Now uint32
}

func (c *StepClock) Msecs() uint32 { return c.Now }

// Advance moves the clock forward by ms, wrapping like the hardware counter.
func (c *StepClock) Advance(ms uint32) { c.Now += ms }
