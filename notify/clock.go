// notify/clock.go

// Package notify evaluates time and lifecycle conditions over domain
// snapshots and maintains the per-user notification log.
package notify

import "time"

// Clock is the injectable time source; rule windows are tested against a
// fixed clock instead of waiting real minutes.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock used in production wiring.
func SystemClock() Clock { return systemClock{} }

// FixedClock always reports the same instant.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }
