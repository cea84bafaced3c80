package timeutil

import (
	"time"
)

type Time interface {
	// Now returns the current time.
	Now() time.Time
}

// RealTime wraps the system clock.
type RealTime struct{}

func (c *RealTime) Now() time.Time {
	return time.Now()
}
