// Package dateparse parses the date and datetime strings that show up in real
// spreadsheets: ISO, US and EU orderings, month names, two-digit years, and
// the text renderings the database itself produces when a temporal column is
// cast back to text.
package dateparse

import (
	"strings"
	"time"
)

// TwoDigitYearPivot controls how two-digit years are read. A parsed year more
// than this many years in the future is pushed back a century.
var TwoDigitYearPivot = 20

var datetimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	// postgres casts timestamptz to text with a bare two-digit offset.
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05-07",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"1/2/2006 15:04:05",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"2-Jan-2006 15:04:05",
}

var dateLayouts = []string{
	"2006-01-02", "2006-1-2",
	"2006/01/02", "2006/1/2",
	"2006.01.02",
	"1/2/2006", "01/02/2006",
	"2/1/2006", "02/01/2006",
	"1-2-2006", "01-02-2006",
	"2-1-2006", "02-01-2006",
	"1.2.2006", "01.02.2006",
	"2-Jan-2006", "2/Jan/2006",
	"02-Jan-2006", "02/Jan/2006",
	"2-January-2006", "2/January/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

var twoDigitYearLayouts = []string{
	"1/2/06", "01/02/06", "1-2-06", "01-02-06", "2-Jan-06", "2/Jan/06",
}

// Parse attempts to read s as a datetime or date. The boolean reports success.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivot := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivot {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// HasClock reports whether s carries a time-of-day marker.
func HasClock(s string) bool {
	return strings.Contains(s, ":")
}

// DateOnly truncates t to midnight UTC, dropping the time component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
