package app

import (
	"time"
)

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Now returns the current time in UTC so freshness math is timezone-stable.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
