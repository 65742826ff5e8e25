package util

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DateKeyLayout is the day key written for new tasks.
	DateKeyLayout = "2006-01-02"
	// jsDateLayout is the Date.prototype.toDateString() form, e.g. "Tue Mar 05 2024".
	jsDateLayout = "Mon Jan 02 2006"
)

// FormatDateKey returns the day key for t in its own location.
func FormatDateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a task day key into local midnight of that calendar day.
// Date-only keys are read as calendar days in loc; instants (RFC3339) are
// converted to loc first and their time of day dropped.
func ParseDateKey(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date key")
	}

	for _, layout := range []string{DateKeyLayout, jsDateLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return StartOfDay(t), nil
		}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return StartOfDay(t.In(loc)), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date key %q", s)
}

// NormalizeDateKey rewrites any accepted day key as YYYY-MM-DD. Unparseable keys
// are returned unchanged.
func NormalizeDateKey(s string) string {
	t, err := ParseDateKey(s, time.Local)
	if err != nil {
		return s
	}
	return FormatDateKey(t)
}

// SameDay reports whether a task day key falls on the calendar day of day.
func SameDay(key string, day time.Time) bool {
	t, err := ParseDateKey(key, day.Location())
	if err != nil {
		return false
	}
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// StartOfDay returns 00:00:00.000 of t's day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// RoundHours rounds to one decimal place.
func RoundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

// FormatHours renders hours with one decimal, e.g. "1.5".
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1f", h)
}

// HumanHours renders hours as "1 hr 30 mins".
func HumanHours(h float64) string {
	mins := int(math.Round(h * 60))
	hrs := mins / 60
	m := mins % 60
	switch {
	case hrs > 0 && m > 0:
		if hrs == 1 {
			return fmt.Sprintf("1 hr %d mins", m)
		}
		return fmt.Sprintf("%d hrs %d mins", hrs, m)
	case hrs > 0:
		if hrs == 1 {
			return "1 hr"
		}
		return fmt.Sprintf("%d hrs", hrs)
	case m == 1:
		return "1 min"
	default:
		return fmt.Sprintf("%d mins", m)
	}
}
