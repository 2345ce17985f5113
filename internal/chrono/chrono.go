// Package chrono abstracts the system clock so reset arithmetic and expiry
// checks stay testable with a frozen time.
package chrono

import "time"

// TimeAPI is the interface anything depending on the current time should use.
type TimeAPI interface {
	// Now returns the current time in UTC.
	Now() time.Time
}

// StandardTime implements TimeAPI with the standard library clock.
type StandardTime struct{}

func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a TimeAPI pinned to one instant, for tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
