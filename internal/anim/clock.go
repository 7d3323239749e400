package anim

import "time"

// Timer is a pending callback scheduled on a Clock.
type Timer interface {
	// Stop prevents the callback from firing.
	// Returns false if the callback already fired or was stopped.
	Stop() bool
}

// Clock abstracts time so tests can drive the engine deterministically.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls fn once d has elapsed.
	// Implementations must not hold internal locks while calling fn.
	AfterFunc(d time.Duration, fn func()) Timer
}

// systemClock implements Clock with the time package.
type systemClock struct{}

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
