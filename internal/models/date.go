package models

import "time"

// DateLayout is the calendar date format used for deadlines and due dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date (YYYY-MM-DD) or an RFC3339 timestamp.
func ParseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatDate formats t as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTimestamp formats t as an RFC3339 timestamp in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
