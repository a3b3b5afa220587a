package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all calendar dates. Dates are
// timezone-less; internally they are represented as UTC midnights.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// FormatDate renders a UTC midnight back to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Midnight truncates any instant to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar date.
func Today() time.Time {
	return Midnight(time.Now())
}

// Nights counts the nights in the half-open interval [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// EachNight calls fn for every occupied date in [checkIn, checkOut).
// The check-out date itself is never occupied.
func EachNight(checkIn, checkOut time.Time, fn func(d time.Time)) {
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// IsWeekendNight reports whether the night starting on d carries the
// weekend premium. Friday and Saturday nights do; Sunday does not.
func IsWeekendNight(d time.Time) bool {
	wd := d.UTC().Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// Overlaps is the half-open interval test: [s1,e1) and [s2,e2)
// conflict iff s1 < e2 && s2 < e1. A stay may begin exactly on another
// stay's check-out date.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
