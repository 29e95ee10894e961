package noaa

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const predTimeFormat = "2006-01-02 15:04"

// Prediction holds a single tide event prediction as NOAA encodes it.
type Prediction struct {
	// Timestamp in the requested time zone, "YYYY-MM-DD HH:MM".
	Time string `json:"t"`
	// Height in the requested units relative to the requested datum. Kept
	// as NOAA's numeric string so it can be shown without reformatting.
	Value string `json:"v"`
	// High or Low tide, "H" or "L" when encoded
	Type Tide `json:"type"`
}

// Verify the custom types can be (un)marshaled
var _ json.Unmarshaler = new(Tide)
var _ json.Marshaler = HighTide

// Predictions is a time series of Prediction, in the order NOAA returned it.
type Predictions []Prediction

// NOAAResult is the data type returned by the NOAA API. On failure NOAA
// answers 200 with Error set and no predictions.
type NOAAResult struct {
	Predictions Predictions `json:"predictions"`
	Error       *APIError   `json:"error,omitempty"`
}

// APIError is the error object NOAA returns in place of data.
type APIError struct {
	Message string `json:"message"`
}

// Event is a Prediction parsed into a time and a height, for drawing.
type Event struct {
	Time   time.Time
	Height float64
	Type   Tide
}

type Tide uint

const (
	HighTide Tide = iota
	LowTide
)

func (t Tide) Valid() bool {
	return t == HighTide || t == LowTide
}

func (t *Tide) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("tide %q not a string: %w", buf, err)
	}
	switch s {
	case "H":
		*t = HighTide
	case "L":
		*t = LowTide
	default:
		return fmt.Errorf("invalid tide type %q", s)
	}
	return nil
}

func (t Tide) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tide type %d", t)
	}
	return json.Marshal(t.String())
}

func (t Tide) String() string {
	switch t {
	case HighTide:
		return "H"
	case LowTide:
		return "L"
	default:
		return "invalid"
	}
}

// Label is the human readable form of t.
func (t Tide) Label() string {
	switch t {
	case HighTide:
		return "High"
	case LowTide:
		return "Low"
	default:
		return "?"
	}
}

// Event parses p, reading its timestamp in loc.
func (p Prediction) Event(loc *time.Location) (Event, error) {
	t, err := time.ParseInLocation(predTimeFormat, p.Time, loc)
	if err != nil {
		return Event{}, fmt.Errorf("prediction time %q not in fmt %q: %w", p.Time, predTimeFormat, err)
	}
	h, err := strconv.ParseFloat(p.Value, 64)
	if err != nil {
		return Event{}, fmt.Errorf("water height %q not a float: %w", p.Value, err)
	}
	return Event{Time: t, Height: h, Type: p.Type}, nil
}

// Events parses every prediction. It fails on the first bad entry.
func (preds Predictions) Events(loc *time.Location) ([]Event, error) {
	events := make([]Event, 0, len(preds))
	for i, p := range preds {
		e, err := p.Event(loc)
		if err != nil {
			return nil, fmt.Errorf("prediction %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}
