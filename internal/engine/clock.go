package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// It is the only external input of the age computation: the refresher,
// the widget timeline and the birthday calendar all read "now" through it.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
