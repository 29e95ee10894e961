package visualize

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spencer-p/tidechart/pkg/noaa/splines"
)

var (
	tideStroke = drawing.Color{R: 75, G: 192, B: 192, A: 255}
	tideFill   = drawing.Color{R: 75, G: 192, B: 192, A: 51}
)

// EncodePNG renders the chart as a PNG image. It needs at least two
// predictions.
func (img *Tidal) EncodePNG(w io.Writer) error {
	if len(img.events) < 2 {
		return ErrNotEnoughData
	}

	var curveX []time.Time
	var curveY []float64
	spl := splines.CurvesBetween(img.events)
	for _, s := range splines.Discrete(spl, len(spl)*samplesPerCurve+1) {
		if math.IsNaN(s.Height) || math.IsInf(s.Height, 0) {
			continue
		}
		curveX = append(curveX, s.Time)
		curveY = append(curveY, s.Height)
	}

	extremeX := make([]time.Time, len(img.events))
	extremeY := make([]float64, len(img.events))
	for i, e := range img.events {
		extremeX[i] = e.Time
		extremeY[i] = e.Height
	}

	series := []chart.Series{chart.TimeSeries{
		Name:    "Extremes",
		XValues: extremeX,
		YValues: extremeY,
		Style: chart.Style{
			StrokeColor: drawing.ColorTransparent,
			DotWidth:    4,
			DotColor:    tideStroke,
		},
	}}
	if len(curveX) > 1 {
		series = append([]chart.Series{chart.TimeSeries{
			Name:    "Tide",
			XValues: curveX,
			YValues: curveY,
			Style: chart.Style{
				StrokeColor: tideStroke,
				StrokeWidth: 4,
				FillColor:   tideFill,
			},
		}}, series...)
	}

	graph := chart.Chart{
		Title:      img.Title[0] + " - " + img.Title[1],
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           XAxisLabel,
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
		},
		YAxis: chart.YAxis{
			Name: img.YLabel,
		},
		Series: series,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render png: %w", err)
	}
	return nil
}
