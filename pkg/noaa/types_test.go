package noaa

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParsePrediction(t *testing.T) {
	table := []struct {
		input string
		want  Prediction
	}{{
		input: `{"t":"2020-10-20 02:17", "v":"4.080", "type":"H"}`,
		want: Prediction{
			Time:  "2020-10-20 02:17",
			Value: "4.080",
			Type:  HighTide,
		},
	}, {
		input: `{"t":"2019-09-21 06:56", "v":"-0.559", "type":"L"}`,
		want: Prediction{
			Time:  "2019-09-21 06:56",
			Value: "-0.559",
			Type:  LowTide,
		},
	}}

	for _, test := range table {
		t.Run(test.input, func(t *testing.T) {
			var got Prediction

			dec := json.NewDecoder(bytes.NewBufferString(test.input))
			if err := dec.Decode(&got); err != nil {
				t.Errorf("unexpected error: %+v", err)
			}

			if diff := cmp.Diff(got, test.want); diff != "" {
				t.Errorf("incorrect parse (-got,+want): %s", diff)
			}
		})
	}
}

func TestParsePredictionBadType(t *testing.T) {
	var got Prediction
	err := json.Unmarshal([]byte(`{"t":"2020-10-20 02:17", "v":"4.080", "type":"X"}`), &got)
	if err == nil {
		t.Errorf("expected error for tide type X")
	}
}

func TestTideMarshal(t *testing.T) {
	blob, err := json.Marshal(Predictions{{Time: "2024-04-05 03:15", Value: "1.2", Type: LowTide}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[{"t":"2024-04-05 03:15","v":"1.2","type":"L"}]`
	if string(blob) != want {
		t.Errorf("got %s, want %s", blob, want)
	}
}

func TestEvents(t *testing.T) {
	preds := Predictions{
		{Time: "2024-04-05 03:15", Value: "1.2", Type: LowTide},
		{Time: "2024-04-05 09:40", Value: "5.8", Type: HighTide},
	}
	got, err := preds.Events(time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Event{
		{Time: time.Date(2024, time.April, 5, 3, 15, 0, 0, time.UTC), Height: 1.2, Type: LowTide},
		{Time: time.Date(2024, time.April, 5, 9, 40, 0, 0, time.UTC), Height: 5.8, Type: HighTide},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong events (-want,+got):\n%s", diff)
	}

	bad := append(preds, Prediction{Time: "2024-04-05 16:00", Value: "n/a", Type: LowTide})
	if _, err := bad.Events(time.UTC); err == nil {
		t.Errorf("expected error for height n/a")
	}
}
