// internal/sched/clock.go

package sched

import "time"

// Clock supplies the anchor instant for a scheduling run.
// The Scheduler reads it exactly once per run so every task is placed
// relative to the same instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Used for a configured anchor
// date and in tests.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
