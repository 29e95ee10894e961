package handlers

import (
	"bytes"
	"html/template"
	"log"
	"net/url"
	"strconv"

	"github.com/spencer-p/tidechart/pkg/noaa"
	"github.com/spencer-p/tidechart/pkg/transform"
	"github.com/spencer-p/tidechart/pkg/view"
	"github.com/spencer-p/tidechart/pkg/visualize"
)

// Form field names, shared with static/index.template.html.
const (
	fieldStation   = "station"
	fieldFromMonth = "fromMonth"
	fieldStart     = "start"
	fieldToMonth   = "toMonth"
	fieldEnd       = "end"
	fieldUnits     = "units"
	fieldTimeZone  = "timezone"
	fieldDatum     = "datum"
)

// parseForm reads a submitted form. Every field must be one of the offered
// options, except the station which only has to be numeric.
func parseForm(vals url.Values) (noaa.DateSelection, noaa.QueryOptions, error) {
	var dates noaa.DateSelection
	var opts noaa.QueryOptions
	var err error

	if opts.StationID, err = noaa.ParseStation(vals.Get(fieldStation)); err != nil {
		return dates, opts, err
	}
	if dates.StartMonth, err = noaa.ParseMonth(vals.Get(fieldFromMonth)); err != nil {
		return dates, opts, err
	}
	if dates.StartDay, err = noaa.ParseDay(vals.Get(fieldStart)); err != nil {
		return dates, opts, err
	}
	if dates.EndMonth, err = noaa.ParseMonth(vals.Get(fieldToMonth)); err != nil {
		return dates, opts, err
	}
	if dates.EndDay, err = noaa.ParseDay(vals.Get(fieldEnd)); err != nil {
		return dates, opts, err
	}
	if opts.Unit, err = noaa.ParseUnit(vals.Get(fieldUnits)); err != nil {
		return dates, opts, err
	}
	if opts.TimeZone, err = noaa.ParseTimeZone(vals.Get(fieldTimeZone)); err != nil {
		return dates, opts, err
	}
	if opts.Datum, err = noaa.ParseDatum(vals.Get(fieldDatum)); err != nil {
		return dates, opts, err
	}
	return dates, opts, nil
}

// FormValues are the selected value of each selector.
type FormValues struct {
	Station   string
	FromMonth string
	Start     string
	ToMonth   string
	End       string
	Units     string
	TimeZone  string
	Datum     string
}

func formValues(dates noaa.DateSelection, opts noaa.QueryOptions) FormValues {
	return FormValues{
		Station:   opts.StationID,
		FromMonth: strconv.Itoa(dates.StartMonth),
		Start:     strconv.Itoa(dates.StartDay),
		ToMonth:   strconv.Itoa(dates.EndMonth),
		End:       strconv.Itoa(dates.EndDay),
		Units:     opts.Unit.String(),
		TimeZone:  string(opts.TimeZone),
		Datum:     string(opts.Datum),
	}
}

// Selectors are the option tables offered on the form.
type Selectors struct {
	Stations  []noaa.Option
	Months    []noaa.Option
	Days      []noaa.Option
	Units     []noaa.Option
	TimeZones []noaa.Option
	Datums    []noaa.Option
}

var selectors = Selectors{
	Stations:  noaa.StationOptions(),
	Months:    noaa.Months,
	Days:      noaa.Days,
	Units:     noaa.Units,
	TimeZones: noaa.TimeZones,
	Datums:    noaa.Datums,
}

type TemplateInput struct {
	Prefix    string
	State     string
	Loading   bool
	ShowChart bool
	Error     string

	Form      FormValues
	Selectors Selectors

	// Set when ShowChart.
	Query     noaa.Query
	UnitLabel string
	Chart     template.HTML
	Table     []transform.Day
}

func newTemplateInput(prefix string, snap view.Snapshot, formErr error) TemplateInput {
	input := TemplateInput{
		Prefix:    basePath(prefix),
		State:     snap.State.String(),
		Loading:   snap.State == view.Loading,
		ShowChart: snap.State == view.Loaded && snap.Last != nil,
		Form:      formValues(snap.Dates, snap.Options),
		Selectors: selectors,
	}
	switch {
	case formErr != nil:
		input.Error = formErr.Error()
	case snap.Err != nil:
		input.Error = snap.Err.Error()
	}

	if input.ShowChart {
		input.Query = snap.Last.Query
		input.UnitLabel = snap.Last.Query.Options.Unit.String()
		input.Chart = chartSVG(snap.Last)
		input.Table = transform.ByDay(snap.Last.Rows)
	}
	return input
}

// chartSVG renders the inline chart, or nothing if it cannot be drawn.
func chartSVG(res *view.Result) template.HTML {
	img, err := visualize.NewTidal(res.Predictions, res.Query.Options)
	if err != nil {
		log.Printf("Failed to build chart: %v", err)
		return ""
	}
	var b bytes.Buffer
	if _, err := img.Encode(&b); err != nil {
		log.Printf("Failed to encode chart: %v", err)
		return ""
	}
	return template.HTML(b.String())
}
