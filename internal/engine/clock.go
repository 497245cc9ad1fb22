package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// It decides what "today" is for resolution passes, ranking and feed generation.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Midnight returns the start of the calendar day of t, in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
