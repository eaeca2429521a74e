// Package system provides the wall clock used to stamp access dates.
package system

import "time"

// Clock implements citation.Clock using time.Now.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time in UTC. Callers convert to the citation zone.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
