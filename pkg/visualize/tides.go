// Package visualize draws a tide prediction list as a line chart, either as
// inline SVG for the page or as a PNG download.
package visualize

import (
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"time"

	"github.com/spencer-p/tidechart/pkg/noaa"
	"github.com/spencer-p/tidechart/pkg/noaa/splines"
	"github.com/spencer-p/tidechart/pkg/sunset"
	"github.com/spencer-p/tidechart/pkg/transform"
)

const (
	width  = 1200
	height = 420

	marginLeft   = 80
	marginRight  = 30
	marginTop    = 60
	marginBottom = 80

	plotWidth  = width - marginLeft - marginRight
	plotHeight = height - marginTop - marginBottom

	// Most x axis labels drawn before they start to collide.
	maxXLabels = 16
	// Spline samples between two extremes.
	samplesPerCurve = 24

	XAxisLabel = "Day/Time of Tide"
)

// ErrNotEnoughData is returned when there are too few predictions to draw a
// line.
var ErrNotEnoughData = errors.New("not enough predictions to draw a chart")

// Tidal is a chart of one prediction list.
type Tidal struct {
	Title  [2]string
	YLabel string

	events    []noaa.Event
	labels    []transform.Label
	sunEvents sunset.SunEvents
}

// NewTidal prepares a chart of preds, which were fetched with opts. Daylight
// is shaded only for stations in noaa.Stations.
func NewTidal(preds noaa.Predictions, opts noaa.QueryOptions) (*Tidal, error) {
	station, known := noaa.LookupStation(opts.StationID)
	loc := station.Location(opts.TimeZone)

	events, err := preds.Events(loc)
	if err != nil {
		return nil, fmt.Errorf("failed to read predictions: %w", err)
	}

	img := &Tidal{
		Title: [2]string{
			fmt.Sprintf("Tide Levels in %s", opts.Unit),
			fmt.Sprintf("Tide Predictions at %s Station", opts.StationID),
		},
		YLabel: fmt.Sprintf("Height in %s (%s)", opts.Unit, opts.Datum),
		events: events,
		labels: transform.Transform(preds).Series.Labels,
	}
	if known && len(events) > 0 {
		place := sunset.Place{Lat: station.Lat, Long: station.Long, Location: loc}
		img.sunEvents = sunset.GetSunEvents(events[0].Time, events[len(events)-1].Time, place)
	}
	return img, nil
}

// Encode writes the chart as an SVG element.
func (img *Tidal) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil && err == nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" class="tide-chart" xmlns="http://www.w3.org/2000/svg">`, width, height))
	io(fmt.Fprintf(w, `<text class="title" x="%d" y="22" text-anchor="middle" font-family="Arial" font-size="16">%s</text>`,
		width/2, html.EscapeString(img.Title[0])))
	io(fmt.Fprintf(w, `<text class="title" x="%d" y="42" text-anchor="middle" font-family="Arial" font-size="14">%s</text>`,
		width/2, html.EscapeString(img.Title[1])))

	if len(img.events) == 0 {
		io(fmt.Fprintf(w, `<text x="%d" y="%d" text-anchor="middle" font-family="Arial">No predictions</text>`, width/2, height/2))
		io(fmt.Fprintf(w, `</svg>`))
		return n, err
	}

	sc := newScale(img.events)

	// Shade the night so daylight stands out.
	for _, band := range nightBands(img.sunEvents, sc.t0, sc.t1) {
		x1, x2 := sc.x(band[0]), sc.x(band[1])
		io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="0.08" x="%d" y="%d" width="%d" height="%d"/>`,
			x1, marginTop, x2-x1, plotHeight))
	}

	// Horizontal grid and y ticks.
	for _, h := range sc.yTicks() {
		y := sc.y(h)
		io(fmt.Fprintf(w, `<line class="grid" stroke="#ddd" x1="%d" y1="%d" x2="%d" y2="%d"/>`,
			marginLeft, y, marginLeft+plotWidth, y))
		io(fmt.Fprintf(w, `<text class="ytick" x="%d" y="%d" text-anchor="end" font-family="Arial" font-size="11">%s</text>`,
			marginLeft-6, y+4, formatHeight(h)))
	}

	// The tide itself: a smooth curve through the extremes, filled below.
	if curve := img.curve(sc); len(curve) > 1 {
		baseline := marginTop + plotHeight
		io(fmt.Fprintf(w, `<path class="tide" fill="rgba(75,192,192,0.2)" stroke="none" d="M %d,%d `, curve[0][0], baseline))
		for _, p := range curve {
			io(fmt.Fprintf(w, `L %d,%d `, p[0], p[1]))
		}
		io(fmt.Fprintf(w, `L %d,%d z"/>`, curve[len(curve)-1][0], baseline))

		io(fmt.Fprintf(w, `<path class="tide-line" fill="none" stroke="rgba(75,192,192,1)" stroke-width="4" d="M %d,%d`, curve[0][0], curve[0][1]))
		for _, p := range curve[1:] {
			io(fmt.Fprintf(w, ` L %d,%d`, p[0], p[1]))
		}
		io(fmt.Fprintf(w, `"/>`))
	}

	// Mark each extreme, with its label as a tooltip.
	for i, e := range img.events {
		io(fmt.Fprintf(w, `<circle class="extreme" cx="%d" cy="%d" r="5" fill="rgba(75,192,192,1)"><title>%s %s: %s %s</title></circle>`,
			sc.x(e.Time), sc.y(e.Height),
			html.EscapeString(img.labels[i][0]), html.EscapeString(img.labels[i][1]),
			formatHeight(e.Height), e.Type.Label()))
	}

	// X labels: date over time, thinned to fit.
	step := (len(img.events) + maxXLabels - 1) / maxXLabels
	for i := 0; i < len(img.events); i += step {
		x := sc.x(img.events[i].Time)
		y := marginTop + plotHeight + 18
		io(fmt.Fprintf(w, `<text class="xtick" x="%d" y="%d" text-anchor="middle" font-family="Arial" font-size="11">`, x, y))
		io(fmt.Fprintf(w, `<tspan x="%d">%s</tspan><tspan x="%d" dy="14">%s</tspan></text>`,
			x, html.EscapeString(img.labels[i][0]), x, html.EscapeString(img.labels[i][1])))
	}

	// Axis names.
	io(fmt.Fprintf(w, `<text class="xlabel" x="%d" y="%d" text-anchor="middle" font-family="Arial" font-weight="bold">%s</text>`,
		marginLeft+plotWidth/2, height-12, XAxisLabel))
	io(fmt.Fprintf(w, `<text class="ylabel" transform="translate(18,%d) rotate(-90)" text-anchor="middle" font-family="Arial" font-weight="bold">%s</text>`,
		marginTop+plotHeight/2, html.EscapeString(img.YLabel)))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

// curve samples the spline through the events in pixel coordinates.
func (img *Tidal) curve(sc scale) [][2]int {
	spl := splines.CurvesBetween(img.events)
	samples := splines.Discrete(spl, len(spl)*samplesPerCurve+1)
	points := make([][2]int, 0, len(samples))
	for _, s := range samples {
		if math.IsNaN(s.Height) || math.IsInf(s.Height, 0) {
			continue
		}
		points = append(points, [2]int{sc.x(s.Time), sc.y(s.Height)})
	}
	return points
}

// nightBands returns [start, end] spans of darkness clipped to [t0, t1].
func nightBands(events sunset.SunEvents, t0, t1 time.Time) [][2]time.Time {
	if len(events) == 0 {
		return nil
	}
	var bands [][2]time.Time
	dark := t0
	isDark := events[0].Event == sunset.Sunrise
	for _, e := range events {
		switch {
		case e.Event == sunset.Sunrise && isDark:
			bands = append(bands, [2]time.Time{dark, e.Time})
			isDark = false
		case e.Event == sunset.Sunset && !isDark:
			dark = e.Time
			isDark = true
		}
	}
	if isDark {
		bands = append(bands, [2]time.Time{dark, t1})
	}

	clipped := bands[:0]
	for _, b := range bands {
		if b[0].Before(t0) {
			b[0] = t0
		}
		if b[1].After(t1) {
			b[1] = t1
		}
		if b[1].After(b[0]) {
			clipped = append(clipped, b)
		}
	}
	return clipped
}

// scale maps times and heights onto the plot area.
type scale struct {
	t0, t1     time.Time
	hmin, hmax float64
}

func newScale(events []noaa.Event) scale {
	sc := scale{
		t0:   events[0].Time,
		t1:   events[0].Time,
		hmin: events[0].Height,
		hmax: events[0].Height,
	}
	for _, e := range events[1:] {
		if e.Time.Before(sc.t0) {
			sc.t0 = e.Time
		}
		if e.Time.After(sc.t1) {
			sc.t1 = e.Time
		}
		sc.hmin = math.Min(sc.hmin, e.Height)
		sc.hmax = math.Max(sc.hmax, e.Height)
	}
	if !sc.t1.After(sc.t0) {
		sc.t0 = sc.t0.Add(-time.Hour)
		sc.t1 = sc.t1.Add(time.Hour)
	}
	pad := (sc.hmax - sc.hmin) * 0.1
	if pad == 0 {
		pad = 1
	}
	sc.hmin -= pad
	sc.hmax += pad
	return sc
}

func (sc scale) x(t time.Time) int {
	frac := float64(t.Sub(sc.t0)) / float64(sc.t1.Sub(sc.t0))
	return marginLeft + int(math.Round(frac*plotWidth))
}

func (sc scale) y(h float64) int {
	frac := (h - sc.hmin) / (sc.hmax - sc.hmin)
	return marginTop + plotHeight - int(math.Round(frac*plotHeight))
}

// yTicks picks round heights across the range, about five of them.
func (sc scale) yTicks() []float64 {
	span := sc.hmax - sc.hmin
	step := math.Pow(10, math.Floor(math.Log10(span/5)))
	for _, m := range []float64{1, 2, 5, 10} {
		if span/(step*m) <= 6 {
			step *= m
			break
		}
	}
	var ticks []float64
	for h := math.Ceil(sc.hmin/step) * step; h <= sc.hmax; h += step {
		ticks = append(ticks, h)
	}
	return ticks
}

func formatHeight(h float64) string {
	if math.Abs(h) < 1e-9 {
		h = 0
	}
	return fmt.Sprintf("%.2f", h)
}
