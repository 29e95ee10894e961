// Package timetricks has calendar helpers shared by the chart renderers.
package timetricks

import (
	"time"
)

const dayFormat = "20060102"

func SameDay(t time.Time, t2 time.Time) bool {
	return UniqueDay(t) == UniqueDay(t2)
}

// TrimClock returns midnight at the start of t's calendar day, in t's
// location.
func TrimClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Noon returns midday of t's calendar day.
func Noon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// DaysSpanned counts the calendar days touched between start and end,
// inclusive, in start's location. It is zero when end is before start.
func DaysSpanned(start, end time.Time) int {
	end = end.In(start.Location())
	if end.Before(start) {
		return 0
	}
	n := 1
	for d := TrimClock(start); !SameDay(d, end); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// UniqueDay returns a string representation of t that is unique by the day.
// For instance, two seperate times on the same calendar day return identical
// strings.
func UniqueDay(t time.Time) string {
	return t.Format(dayFormat)
}
