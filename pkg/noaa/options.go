package noaa

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrUnknownOption is returned when a form value is not in its option table.
var ErrUnknownOption = errors.New("unknown option")

// Option is one entry of a selector: the submitted value and what the user
// sees. The same tables drive the page selectors and the query mapping.
type Option struct {
	Value string
	Label string
}

// Unit selects the measurement system of returned heights.
type Unit int

const (
	Metric Unit = iota
	English
)

var unitTable = []struct {
	unit  Unit
	value string
	param string
}{
	{Metric, "Meters", "metric"},
	{English, "Feet", "english"},
}

// Units lists the unit selector options.
var Units = func() []Option {
	opts := make([]Option, len(unitTable))
	for i, u := range unitTable {
		opts[i] = Option{Value: u.value, Label: u.value}
	}
	return opts
}()

// ParseUnit reads a unit selector value, e.g. "Feet".
func ParseUnit(s string) (Unit, error) {
	for _, u := range unitTable {
		if u.value == s {
			return u.unit, nil
		}
	}
	return 0, fmt.Errorf("unit %q: %w", s, ErrUnknownOption)
}

// String is the selector value of u, which doubles as its display name.
func (u Unit) String() string {
	for _, row := range unitTable {
		if row.unit == u {
			return row.value
		}
	}
	return "invalid"
}

func (u Unit) MarshalText() ([]byte, error) {
	if u.Param() == "" {
		return nil, fmt.Errorf("unit %d: %w", u, ErrUnknownOption)
	}
	return []byte(u.String()), nil
}

// Param is the value of the "units" API parameter.
func (u Unit) Param() string {
	for _, row := range unitTable {
		if row.unit == u {
			return row.param
		}
	}
	return ""
}

// TimeZone is the time zone NOAA reports timestamps in.
type TimeZone string

const (
	GMT TimeZone = "gmt"
	// Local standard time, ignoring daylight saving.
	LST TimeZone = "lst"
	// Local standard or daylight time, whichever is in effect.
	LSTLDT TimeZone = "lst_ldt"
)

var TimeZones = []Option{
	{string(GMT), "gmt"},
	{string(LST), "lst"},
	{string(LSTLDT), "lst_ldt"},
}

func ParseTimeZone(s string) (TimeZone, error) {
	if !inTable(TimeZones, s) {
		return "", fmt.Errorf("time zone %q: %w", s, ErrUnknownOption)
	}
	return TimeZone(s), nil
}

// Datum is the reference water level heights are measured against.
type Datum string

const (
	MHHW Datum = "MHHW"
	MHW  Datum = "MHW"
	MTL  Datum = "MTL"
	MLLW Datum = "MLLW"
)

var Datums = []Option{
	{string(MHHW), "MHHW"},
	{string(MHW), "MHW"},
	{string(MTL), "MTL"},
	{string(MLLW), "MLLW"},
}

func ParseDatum(s string) (Datum, error) {
	if !inTable(Datums, s) {
		return "", fmt.Errorf("datum %q: %w", s, ErrUnknownOption)
	}
	return Datum(s), nil
}

// Station is a tide prediction station with enough geography to compute sun
// events and local time.
type Station struct {
	ID        string
	Name      string
	Lat, Long float64
	// IANA zone of the station.
	Zone string
}

const DefaultStation = "9414290"

var Stations = []Station{
	{"9414290", "San Francisco, CA", 37.8063, -122.4659, "America/Los_Angeles"},
	{"9415020", "Point Reyes, CA", 37.9961, -122.9767, "America/Los_Angeles"},
	{"9413745", "Santa Cruz, Monterey Bay, CA", 36.9583, -122.0173, "America/Los_Angeles"},
	{"9414275", "Ocean Beach, Outer Coast, CA", 37.7750, -122.5133, "America/Los_Angeles"},
	{"9414806", "Sausalito, San Francisco, CA", 37.8467, -122.4767, "America/Los_Angeles"},
	{"9415141", "Davis Point, CA", 38.0567, -122.2600, "America/Los_Angeles"},
	{"9412110", "Port San Luis, CA", 35.1689, -120.7542, "America/Los_Angeles"},
	{"9411340", "Santa Barbara, CA", 34.4083, -119.6850, "America/Los_Angeles"},
	{"9413450", "Monterey, CA", 36.6050, -121.8883, "America/Los_Angeles"},
	{"9414750", "Alameda, CA", 37.7717, -122.3000, "America/Los_Angeles"},
	{"9447130", "Seattle, WA", 47.6026, -122.3393, "America/Los_Angeles"},
	{"9441102", "Westport, WA", 46.9043, -124.1051, "America/Los_Angeles"},
	{"9444900", "Port Townsend, WA", 48.1113, -122.7597, "America/Los_Angeles"},
	{"8518750", "The Battery, NY", 40.7006, -74.0142, "America/New_York"},
}

// StationOptions lists the station selector options.
func StationOptions() []Option {
	opts := make([]Option, len(Stations))
	for i, s := range Stations {
		opts[i] = Option{Value: s.ID, Label: s.ID + " " + s.Name}
	}
	return opts
}

// LookupStation finds a known station by ID.
func LookupStation(id string) (Station, bool) {
	for _, s := range Stations {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}

// ParseStation accepts any numeric station code. Codes outside Stations are
// left for NOAA to validate.
func ParseStation(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("station %q: %w", s, ErrUnknownOption)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("station %q not numeric: %w", s, ErrUnknownOption)
		}
	}
	return s, nil
}

// Location is the time.Location NOAA timestamps are in when requested with
// tz at this station. Unknown zones fall back to UTC.
func (s Station) Location(tz TimeZone) *time.Location {
	if tz == GMT || s.Zone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Zone)
	if err != nil {
		return time.UTC
	}
	if tz == LSTLDT {
		return loc
	}
	// January is standard time at every station we list.
	name, offset := time.Date(2000, time.January, 1, 0, 0, 0, 0, loc).Zone()
	return time.FixedZone(name, offset)
}

// Months lists the month selector options, valued 1 through 12.
var Months = func() []Option {
	opts := make([]Option, 12)
	for m := time.January; m <= time.December; m++ {
		opts[m-1] = Option{Value: strconv.Itoa(int(m)), Label: m.String()}
	}
	return opts
}()

// Days lists the day selector options, 1 through 31 for every month.
var Days = func() []Option {
	opts := make([]Option, 31)
	for d := 1; d <= 31; d++ {
		opts[d-1] = Option{Value: strconv.Itoa(d), Label: strconv.Itoa(d)}
	}
	return opts
}()

// ParseMonth reads a month selector value.
func ParseMonth(s string) (int, error) {
	return parseRange("month", s, 1, 12)
}

// ParseDay reads a day selector value. Days are not checked against month
// length; NOAA rejects impossible dates itself.
func ParseDay(s string) (int, error) {
	return parseRange("day", s, 1, 31)
}

func parseRange(what, s string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%s %q: %w", what, s, ErrUnknownOption)
	}
	return n, nil
}

func inTable(table []Option, value string) bool {
	for _, o := range table {
		if o.Value == value {
			return true
		}
	}
	return false
}
