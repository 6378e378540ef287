// Package clock abstracts "now" so month-window and budget logic can be
// tested with a pinned time instead of the wall clock.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Test use only.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// At returns a Fixed clock pinned to the given UTC day.
func At(year int, month time.Month, day int) Fixed {
	return Fixed{T: time.Date(year, month, day, 12, 0, 0, 0, time.UTC)}
}
