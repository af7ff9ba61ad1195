package models

import "time"

// DateLayout is the calendar-day format used in messages and config.
const DateLayout = "2006-01-02"

// Day truncates t to its calendar day at UTC midnight. All booking dates are whole days.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// MustParseDay parses a YYYY-MM-DD string and panics on malformed input. Meant for fixtures.
func MustParseDay(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return Day(t)
}
