// Package view holds one visitor's tide dashboard: the form they are editing,
// whether a fetch is in flight, and the results of the last successful fetch.
// All changes go through the transition methods on Dashboard.
package view

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/spencer-p/tidechart/pkg/metrics"
	"github.com/spencer-p/tidechart/pkg/noaa"
	"github.com/spencer-p/tidechart/pkg/transform"
)

// State is where a Dashboard is in its fetch cycle.
type State int

const (
	// Idle shows the form. Results of an earlier fetch may still be held.
	Idle State = iota
	// Loading has a fetch in flight; the form cannot be submitted.
	Loading
	// Loaded shows the chart and table.
	Loaded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "invalid"
	}
}

// ErrBusy is returned when a fetch is submitted while one is in flight.
var ErrBusy = errors.New("a fetch is already in progress")

// Fetcher retrieves predictions for a query; *noaa.Client is one.
type Fetcher interface {
	GetPredictions(ctx context.Context, q noaa.Query) (noaa.Predictions, error)
}

// Result is the outcome of one fetch. Err is nil on success, and is a
// *noaa.FetchError whenever the fetcher is a *noaa.Client.
type Result struct {
	Query       noaa.Query
	Predictions noaa.Predictions
	transform.Result
	Err error
}

// Dashboard is safe for concurrent use.
type Dashboard struct {
	mu      sync.Mutex
	state   State
	dates   noaa.DateSelection
	opts    noaa.QueryOptions
	last    *Result
	lastErr error

	now func() time.Time
}

// New creates an Idle dashboard with the default form: San Francisco,
// today through next week.
func New() *Dashboard {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Dashboard {
	return &Dashboard{
		state: Idle,
		dates: noaa.DefaultDates(now()),
		opts:  noaa.DefaultOptions(),
		now:   now,
	}
}

// Submit stores the form and starts a fetch of exactly that form, under one
// lock. The result arrives once on
// the returned channel, after the dashboard has already been updated with
// it. While Loading, Submit changes nothing and returns ErrBusy.
//
// The fetch does not inherit any caller's context: it runs until the
// fetcher returns even if nobody waits for it.
func (d *Dashboard) Submit(dates noaa.DateSelection, opts noaa.QueryOptions, f Fetcher) (<-chan Result, error) {
	d.mu.Lock()
	if d.state == Loading {
		d.mu.Unlock()
		return nil, ErrBusy
	}
	d.dates = dates
	d.opts = opts
	q := noaa.BuildQuery(d.dates, d.opts, d.now())
	d.state = Loading
	d.mu.Unlock()

	ch := make(chan Result, 1)
	go func() {
		res := fetch(f, q)
		d.complete(res)
		ch <- res
		close(ch)
	}()
	return ch, nil
}

func fetch(f Fetcher, q noaa.Query) Result {
	log.Printf("Fetching %s %s-%s", q.Options.StationID, q.BeginDate, q.EndDate)
	start := time.Now()
	preds, err := f.GetPredictions(context.Background(), q)
	metrics.ObserveFetch(outcome(err), time.Since(start).Seconds())
	if err != nil {
		return Result{Query: q, Err: err}
	}
	return Result{
		Query:       q,
		Predictions: preds,
		Result:      transform.Transform(preds),
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var fe *noaa.FetchError
	if errors.As(err, &fe) {
		return fe.Kind.String()
	}
	return "error"
}

// complete leaves Loading. A failure keeps earlier results and returns to the
// form with the error to show.
func (d *Dashboard) complete(res Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if res.Err != nil {
		log.Printf("Failed to fetch predictions: %v", res.Err)
		d.lastErr = res.Err
		d.state = Idle
		return
	}
	d.last = &res
	d.lastErr = nil
	d.state = Loaded
}

// Edit goes back to the form from the chart, keeping the results. It reports
// whether anything changed.
func (d *Dashboard) Edit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Loaded {
		return false
	}
	d.state = Idle
	return true
}

// Snapshot is a consistent copy of a Dashboard for rendering.
type Snapshot struct {
	State   State
	Dates   noaa.DateSelection
	Options noaa.QueryOptions
	// Last is the latest successful fetch, nil before the first one.
	Last *Result
	// Err is the error of the latest fetch if it failed.
	Err error
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Snapshot{
		State:   d.state,
		Dates:   d.dates,
		Options: d.opts,
		Last:    d.last,
		Err:     d.lastErr,
	}
}
