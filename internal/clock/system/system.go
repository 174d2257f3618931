// Package system provides a real clock implementation.
package system

import "time"

// Clock implements mandi.Clock using the time package.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}

// After returns a channel that fires after d.
func (Clock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
