// Package sunset finds sunrise and sunset at a tide station, so the chart can
// shade daylight.
package sunset

import (
	"time"

	"github.com/spencer-p/tidechart/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// GetSunEvents returns the sunrises and sunsets of every calendar day from
// start to end at place, in order and in place's location. Days without both
// a sunrise and a sunset on that day, such as polar summer, are skipped.
func GetSunEvents(start, end time.Time, place Place) SunEvents {
	loc := place.Location
	if loc == nil {
		loc = time.UTC
	}
	start = start.In(loc)

	numDays := timetricks.DaysSpanned(start, end)
	ret := make(SunEvents, 0, numDays*2)
	var s sunrise.Sunrise
	for i := 0; i < numDays; i++ {
		// Around noon, the nearest sunrise and sunset are that day's.
		day := timetricks.Noon(start.AddDate(0, 0, i))
		s.Around(place.Lat, place.Long, day)
		rise, set := s.Sunrise().In(loc), s.Sunset().In(loc)
		if !timetricks.SameDay(day, rise) || !timetricks.SameDay(day, set) || !rise.Before(set) {
			continue
		}
		ret = append(ret, SunEvent{rise, Sunrise}, SunEvent{set, Sunset})
	}
	return ret
}
