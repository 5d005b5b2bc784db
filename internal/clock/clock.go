// Package clock supplies the current time to code that reasons about "today".
// Date arithmetic in the forecasting and goal packages never calls time.Now directly,
// so tests can pin the calendar.
package clock

import "time"

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// Real returns the system time
type Real struct{}

// Now returns the current system time
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed always returns T
type Fixed struct {
	T time.Time
}

// Now returns the fixed time
func (c Fixed) Now() time.Time {
	return c.T
}

// Today truncates t to midnight in its own location
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf truncates t to midnight in its own location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b, ignoring time of day and DST shifts
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
