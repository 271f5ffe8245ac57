package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Birthday windows and calendar stamps are computed from it.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// civilDate drops the clock reading and the zone, keeping the calendar date.
// Day arithmetic on the result is free of DST shifts.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
