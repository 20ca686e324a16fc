package util

import (
	"strconv"
	"time"
)

// DateLayout is the plain calendar-date layout used by CSV exports and JSON requests.
const DateLayout = "2006-01-02"

// ParseTime tries RFC3339, RFC3339Nano, a plain date, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BusinessDayRange returns periods consecutive business days starting at start.
// start is normalised to midnight in its own location; a weekend start rolls
// forward to the following Monday. No holiday calendar is applied.
func BusinessDayRange(start time.Time, periods int) []time.Time {
	if periods <= 0 {
		return nil
	}
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for !IsBusinessDay(day) {
		day = day.AddDate(0, 0, 1)
	}
	out := make([]time.Time, 0, periods)
	for len(out) < periods {
		out = append(out, day)
		day = day.AddDate(0, 0, 1)
		for !IsBusinessDay(day) {
			day = day.AddDate(0, 0, 1)
		}
	}
	return out
}
