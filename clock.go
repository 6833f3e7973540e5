package klayout

import "time"

type (
	// Clock returns the current time
	Clock interface {
		Time() time.Time
	}

	// RealTime is a [Clock] reading the system wall clock
	RealTime struct{}
)

// Time implements [Clock] and returns the current UTC time without its
// monotonic reading
func (c RealTime) Time() time.Time {
	return time.Now().UTC().Round(0)
}
