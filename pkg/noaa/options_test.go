package noaa

import (
	"errors"
	"testing"
	"time"
)

func TestParseUnit(t *testing.T) {
	table := []struct {
		input string
		unit  Unit
		param string
	}{
		{"Meters", Metric, "metric"},
		{"Feet", English, "english"},
	}
	for _, tc := range table {
		t.Run(tc.input, func(t *testing.T) {
			u, err := ParseUnit(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u != tc.unit {
				t.Errorf("ParseUnit(%q) = %v, want %v", tc.input, u, tc.unit)
			}
			if u.Param() != tc.param {
				t.Errorf("Param() = %q, want %q", u.Param(), tc.param)
			}
			if u.String() != tc.input {
				t.Errorf("String() = %q, want %q", u.String(), tc.input)
			}
		})
	}

	if _, err := ParseUnit("Fathoms"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("expected ErrUnknownOption, got %v", err)
	}
}

func TestParseOptions(t *testing.T) {
	for _, o := range TimeZones {
		if _, err := ParseTimeZone(o.Value); err != nil {
			t.Errorf("ParseTimeZone(%q): %v", o.Value, err)
		}
	}
	for _, o := range Datums {
		if _, err := ParseDatum(o.Value); err != nil {
			t.Errorf("ParseDatum(%q): %v", o.Value, err)
		}
	}
	for _, o := range StationOptions() {
		if _, err := ParseStation(o.Value); err != nil {
			t.Errorf("ParseStation(%q): %v", o.Value, err)
		}
	}
	for _, o := range Months {
		if _, err := ParseMonth(o.Value); err != nil {
			t.Errorf("ParseMonth(%q): %v", o.Value, err)
		}
	}
	for _, o := range Days {
		if _, err := ParseDay(o.Value); err != nil {
			t.Errorf("ParseDay(%q): %v", o.Value, err)
		}
	}

	bad := []func() error{
		func() error { _, err := ParseTimeZone("pst"); return err },
		func() error { _, err := ParseDatum("NAVD"); return err },
		func() error { _, err := ParseStation("94142a0"); return err },
		func() error { _, err := ParseStation(""); return err },
		func() error { _, err := ParseMonth("13"); return err },
		func() error { _, err := ParseDay("0"); return err },
		func() error { _, err := ParseDay("x"); return err },
	}
	for i, f := range bad {
		if err := f(); !errors.Is(err, ErrUnknownOption) {
			t.Errorf("case %d: expected ErrUnknownOption, got %v", i, err)
		}
	}
}

func TestStationsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Stations {
		if seen[s.ID] {
			t.Errorf("station %s listed twice", s.ID)
		}
		seen[s.ID] = true
	}
	if _, ok := LookupStation(DefaultStation); !ok {
		t.Errorf("default station %s not listed", DefaultStation)
	}
	if s, ok := LookupStation("9447130"); !ok || s.Name != "Seattle, WA" {
		t.Errorf("LookupStation(9447130) = %v, %v", s, ok)
	}
}

func TestStationLocation(t *testing.T) {
	sf, _ := LookupStation("9414290")
	july := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)

	table := []struct {
		tz     TimeZone
		offset int
	}{
		{GMT, 0},
		{LST, -8 * 3600},
		{LSTLDT, -7 * 3600},
	}
	for _, tc := range table {
		t.Run(string(tc.tz), func(t *testing.T) {
			_, offset := july.In(sf.Location(tc.tz)).Zone()
			if offset != tc.offset {
				t.Errorf("offset = %d, want %d", offset, tc.offset)
			}
		})
	}
}
