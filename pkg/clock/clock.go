// Package clock lets the selection engine and report builder read "today"
// from an injected source so runs can be reproduced in tests.
package clock

import "time"

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// RealClock returns the system time. Only cmd/ wires it.
type RealClock struct{}

// Now returns the current system time
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock struct {
	T time.Time
}

// Now returns the fixed time
func (c FixedClock) Now() time.Time {
	return c.T
}

// NewReal returns a Clock backed by the system time
func NewReal() Clock {
	return RealClock{}
}

// NewFixed returns a Clock that always reports t
func NewFixed(t time.Time) Clock {
	return FixedClock{T: t}
}

// Today truncates the clock's current time to midnight in its own location
func Today(c Clock) time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
