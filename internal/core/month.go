package core

import (
	"fmt"
	"time"
)

// Month is a calendar month in "YYYY-MM" form. It is the granularity used by
// budgets, reminders and the dashboard aggregates.
type Month string

// ParseMonth validates and returns a Month from its "YYYY-MM" text form.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.UTC().Format("2006-01"))
}

func (m Month) String() string { return string(m) }

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Year returns the calendar year of the month, or 0 for an invalid month.
func (m Month) Year() int {
	return m.Time().Year()
}

// Add steps the month forward (or backward for negative n).
func (m Month) Add(n int) Month {
	return MonthOf(m.Time().AddDate(0, n, 0))
}

// Before reports whether m is strictly earlier than other. The "YYYY-MM"
// encoding makes lexicographic order calendar order.
func (m Month) Before(other Month) bool { return string(m) < string(other) }

// After reports whether m is strictly later than other.
func (m Month) After(other Month) bool { return string(m) > string(other) }
