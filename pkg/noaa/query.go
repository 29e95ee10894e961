package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const NOAA_URL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

// DateSelection is the from/to month and day chosen on the form. The year is
// always the current year when the query is built.
type DateSelection struct {
	StartDay, StartMonth int
	EndDay, EndMonth     int
}

// DefaultDates selects today through one week from today.
func DefaultDates(now time.Time) DateSelection {
	end := now.AddDate(0, 0, 7)
	return DateSelection{
		StartDay:   now.Day(),
		StartMonth: int(now.Month()),
		EndDay:     end.Day(),
		EndMonth:   int(end.Month()),
	}
}

// QueryOptions are the non-date choices of a prediction query.
type QueryOptions struct {
	StationID string   `json:"station"`
	Unit      Unit     `json:"units"`
	TimeZone  TimeZone `json:"time_zone"`
	Datum     Datum    `json:"datum"`
}

// DefaultOptions is San Francisco in meters above MLLW, local time.
func DefaultOptions() QueryOptions {
	return QueryOptions{
		StationID: DefaultStation,
		Unit:      Metric,
		TimeZone:  LSTLDT,
		Datum:     MLLW,
	}
}

// Query is a fully resolved prediction query; see BuildQuery.
type Query struct {
	BeginDate string       `json:"begin_date"`
	EndDate   string       `json:"end_date"`
	Options   QueryOptions `json:"options"`
}

// BuildQuery resolves a date selection against now. Both dates take now's
// year, so a range that wraps past December is sent as-is and NOAA rejects
// it. Neither date is validated here.
func BuildQuery(dates DateSelection, opts QueryOptions, now time.Time) Query {
	year := strconv.Itoa(now.Year())
	return Query{
		BeginDate: year + Pad2(dates.StartMonth) + Pad2(dates.StartDay),
		EndDate:   year + Pad2(dates.EndMonth) + Pad2(dates.EndDay),
		Options:   opts,
	}
}

// Pad2 formats n with a leading zero when it is a single digit.
func Pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Values is the datagetter parameter set for q.
func (q Query) Values() url.Values {
	vals := make(url.Values)
	vals.Add("station", q.Options.StationID)
	vals.Add("begin_date", q.BeginDate)
	vals.Add("end_date", q.EndDate)
	vals.Add("product", "predictions")
	vals.Add("datum", string(q.Options.Datum))
	vals.Add("units", q.Options.Unit.Param())
	vals.Add("time_zone", string(q.Options.TimeZone))
	vals.Add("interval", "hilo")
	vals.Add("format", "json")
	return vals
}

// Client fetches predictions from a datagetter endpoint.
type Client struct {
	baseURL     string
	application string
	httpClient  *http.Client
}

// NewClient creates a client for baseURL, or NOAA itself if it is empty.
// application is sent so NOAA can identify the caller. A zero timeout means
// requests wait as long as NOAA takes.
func NewClient(baseURL, application string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = NOAA_URL
	}
	return &Client{
		baseURL:     baseURL,
		application: application,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL is the request address for q.
func (c *Client) URL(q Query) (*url.URL, error) {
	addr, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	vals := q.Values()
	if c.application != "" {
		vals.Add("application", c.application)
	}
	addr.RawQuery = vals.Encode()
	return addr, nil
}

// GetPredictions performs q. Every failure is a *FetchError.
func (c *Client) GetPredictions(ctx context.Context, q Query) (Predictions, error) {
	addr, err := c.URL(q)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: fmt.Errorf("bad base url: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	var result NOAAResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &FetchError{Kind: KindMalformed, StatusCode: resp.StatusCode, Err: err}
	}
	if result.Error != nil {
		return nil, &FetchError{Kind: KindAPI, StatusCode: resp.StatusCode, Message: result.Error.Message}
	}
	if result.Predictions == nil {
		return nil, &FetchError{Kind: KindMalformed, StatusCode: resp.StatusCode, Message: "response has no predictions"}
	}

	return result.Predictions, nil
}
