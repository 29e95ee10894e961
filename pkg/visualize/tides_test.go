package visualize

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/spencer-p/tidechart/pkg/noaa"
	"github.com/spencer-p/tidechart/pkg/sunset"
)

var samplePreds = noaa.Predictions{
	{Time: "2024-04-05 03:15", Value: "1.2", Type: noaa.LowTide},
	{Time: "2024-04-05 09:40", Value: "5.8", Type: noaa.HighTide},
	{Time: "2024-04-05 15:52", Value: "0.4", Type: noaa.LowTide},
	{Time: "2024-04-05 22:01", Value: "4.9", Type: noaa.HighTide},
}

func TestEncodeSVG(t *testing.T) {
	img, err := NewTidal(samplePreds, noaa.DefaultOptions())
	if err != nil {
		t.Fatalf("NewTidal: %v", err)
	}

	var b bytes.Buffer
	n, err := img.Encode(&b)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != b.Len() {
		t.Errorf("Encode reported %d bytes, wrote %d", n, b.Len())
	}

	svg := b.String()
	for _, want := range []string{
		"<svg",
		"Tide Levels in Meters",
		"Tide Predictions at 9414290 Station",
		"Height in Meters (MLLW)",
		"Day/Time of Tide",
		`class="tide-line"`,
		"2024-04-05 09:40: 5.80 High",
		"</svg>",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if got := strings.Count(svg, `class="extreme"`); got != len(samplePreds) {
		t.Errorf("got %d extreme markers, want %d", got, len(samplePreds))
	}
}

func TestEncodeSVGEmpty(t *testing.T) {
	img, err := NewTidal(nil, noaa.DefaultOptions())
	if err != nil {
		t.Fatalf("NewTidal: %v", err)
	}
	var b bytes.Buffer
	if _, err := img.Encode(&b); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(b.String(), "No predictions") {
		t.Errorf("empty chart should say so, got %s", b.String())
	}
}

func TestNewTidalBadHeight(t *testing.T) {
	preds := noaa.Predictions{{Time: "2024-04-05 03:15", Value: "", Type: noaa.LowTide}}
	if _, err := NewTidal(preds, noaa.DefaultOptions()); err == nil {
		t.Errorf("expected error for empty height")
	}
}

func TestEncodePNG(t *testing.T) {
	opts := noaa.DefaultOptions()
	opts.Unit = noaa.English
	img, err := NewTidal(samplePreds, opts)
	if err != nil {
		t.Fatalf("NewTidal: %v", err)
	}

	var b bytes.Buffer
	if err := img.EncodePNG(&b); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(&b)
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if got := decoded.Bounds().Dx(); got != width {
		t.Errorf("png width = %d, want %d", got, width)
	}
}

func TestEncodePNGTooFew(t *testing.T) {
	img, err := NewTidal(samplePreds[:1], noaa.DefaultOptions())
	if err != nil {
		t.Fatalf("NewTidal: %v", err)
	}
	if err := img.EncodePNG(&bytes.Buffer{}); !errors.Is(err, ErrNotEnoughData) {
		t.Errorf("EncodePNG = %v, want ErrNotEnoughData", err)
	}
}

func TestNightBands(t *testing.T) {
	day := time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }
	events := sunset.SunEvents{
		{Time: at(6), Event: sunset.Sunrise},
		{Time: at(19), Event: sunset.Sunset},
		{Time: at(30), Event: sunset.Sunrise},
		{Time: at(43), Event: sunset.Sunset},
	}

	got := nightBands(events, at(3), at(40))
	want := [][2]time.Time{{at(3), at(6)}, {at(19), at(30)}}
	if len(got) != len(want) {
		t.Fatalf("got %d bands, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i][0].Equal(want[i][0]) || !got[i][1].Equal(want[i][1]) {
			t.Errorf("band %d = %v, want %v", i, got[i], want[i])
		}
	}
}
