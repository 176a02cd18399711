package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Only the scheduling and feed layers read it; age computations take "today"
// as an explicit argument.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant. The CLI uses it for --today.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.At
}

// Today returns the civil date of the clock in its own location.
func Today(c Clock) CalendarDate {
	return DateOf(c.Now())
}
