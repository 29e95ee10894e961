// Package metrics exports Prometheus metrics for the tide dashboard.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "tidechart"

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: subsystem,
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	fetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "noaa_fetch_latency",
			Subsystem: subsystem,
			Help:      "NOAA prediction fetch latencies in seconds, by outcome.",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8, 25.6},
		},
		[]string{"outcome"},
	)

	dashboards = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:      "dashboards",
			Subsystem: subsystem,
			Help:      "Visitor dashboards held in memory.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		fetchLatency,
		dashboards,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveFetch records one NOAA fetch. outcome is "ok" or the kind of
// failure.
func ObserveFetch(outcome string, latency float64) {
	fetchLatency.With(prometheus.Labels{"outcome": outcome}).Observe(latency)
}

// SetDashboards records how many dashboards are live.
func SetDashboards(n int) {
	dashboards.Set(float64(n))
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.code == 0 {
		r.code = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.code == 0 {
		r.code = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) status() string {
	if r.code == 0 {
		// Nothing written, will be set to 200 by stdlib.
		return "200"
	}
	return strconv.Itoa(r.code)
}

// LatencyHandler observes the latency of every request to next. It is meant
// to be installed with mux.Router.Use, so the path label is the matched
// route's template and stays bounded.
func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := routeLabel(r)
		rec := &statusRecorder{ResponseWriter: w}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, rec.status(), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}

// routeLabel is the path template of the route r matched, or "unmatched".
func routeLabel(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}
