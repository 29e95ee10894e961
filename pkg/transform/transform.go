// Package transform reshapes NOAA predictions into what the page draws: a
// chart series and table rows. Everything here is pure; the same predictions
// always give the same output.
package transform

import (
	"strings"

	"github.com/spencer-p/tidechart/pkg/noaa"
)

// Label is the [date, time] pair under one chart point.
type Label [2]string

// ChartSeries is parallel lists of point labels and heights, in the order
// NOAA returned the predictions.
type ChartSeries struct {
	Labels []Label  `json:"labels"`
	Values []string `json:"values"`
}

// Row is one prediction with its timestamp split into columns.
type Row struct {
	Date  string    `json:"date"`
	Time  string    `json:"time"`
	Value string    `json:"value"`
	Type  noaa.Tide `json:"type"`
}

// Result is everything derived from one successful fetch.
type Result struct {
	Series ChartSeries
	Rows   []Row
}

// Transform builds the chart series and table rows for preds.
func Transform(preds noaa.Predictions) Result {
	series := ChartSeries{
		Labels: make([]Label, len(preds)),
		Values: make([]string, len(preds)),
	}
	rows := make([]Row, len(preds))
	for i, p := range preds {
		label := SplitTimestamp(p.Time)
		series.Labels[i] = label
		series.Values[i] = p.Value
		rows[i] = Row{
			Date:  label[0],
			Time:  label[1],
			Value: p.Value,
			Type:  p.Type,
		}
	}
	return Result{Series: series, Rows: rows}
}

// SplitTimestamp splits "YYYY-MM-DD HH:MM" on whitespace. A timestamp with no
// whitespace is all date.
func SplitTimestamp(ts string) Label {
	fields := strings.Fields(ts)
	switch len(fields) {
	case 0:
		return Label{"", ""}
	case 1:
		return Label{fields[0], ""}
	default:
		return Label{fields[0], fields[1]}
	}
}

// Day is the rows of a single date, for a table broken up by day.
type Day struct {
	Date string
	Rows []Row
}

// ByDay groups consecutive rows that share a date.
func ByDay(rows []Row) []Day {
	var days []Day
	for _, r := range rows {
		if n := len(days); n > 0 && days[n-1].Date == r.Date {
			days[n-1].Rows = append(days[n-1].Rows, r)
			continue
		}
		days = append(days, Day{Date: r.Date, Rows: []Row{r}})
	}
	return days
}
