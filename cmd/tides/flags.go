package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spencer-p/tidechart/pkg/noaa"
)

// parse checks every flag against the same option tables the dashboard
// offers.
func (f flags) parse() (noaa.DateSelection, noaa.QueryOptions, error) {
	var dates noaa.DateSelection
	var opts noaa.QueryOptions
	var err error

	if opts.StationID, err = noaa.ParseStation(f.station); err != nil {
		return dates, opts, err
	}
	if dates.StartMonth, dates.StartDay, err = parseMonthDay(f.from); err != nil {
		return dates, opts, fmt.Errorf("--from: %w", err)
	}
	if dates.EndMonth, dates.EndDay, err = parseMonthDay(f.to); err != nil {
		return dates, opts, fmt.Errorf("--to: %w", err)
	}
	if opts.Unit, err = noaa.ParseUnit(f.units); err != nil {
		return dates, opts, err
	}
	if opts.TimeZone, err = noaa.ParseTimeZone(f.tz); err != nil {
		return dates, opts, err
	}
	if opts.Datum, err = noaa.ParseDatum(f.datum); err != nil {
		return dates, opts, err
	}
	return dates, opts, nil
}

// parseMonthDay reads "M/D", e.g. "4/5".
func parseMonthDay(s string) (month, day int, err error) {
	m, d, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("date %q is not month/day", s)
	}
	if month, err = noaa.ParseMonth(m); err != nil {
		return 0, 0, err
	}
	if day, err = noaa.ParseDay(d); err != nil {
		return 0, 0, err
	}
	return month, day, nil
}

func formatMonthDay(month, day int) string {
	return strconv.Itoa(month) + "/" + strconv.Itoa(day)
}
