package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/spencer-p/tidechart/pkg/cache"
	"github.com/spencer-p/tidechart/pkg/metrics"
	"github.com/spencer-p/tidechart/pkg/noaa"
	"github.com/spencer-p/tidechart/pkg/transform"
	"github.com/spencer-p/tidechart/pkg/view"
	"github.com/spencer-p/tidechart/pkg/visualize"
)

const (
	sessionName = "tidechart"
	visitorID   = "visitor"

	defaultSessionTTL = 24 * time.Hour
)

// Options configure Register.
type Options struct {
	// Prefix is the path the router is mounted under, e.g. "/".
	Prefix string
	// Content holds static/index.template.html and the other static assets.
	Content fs.FS
	// Fetcher performs prediction queries, normally a *noaa.Client.
	Fetcher view.Fetcher
	// Store holds the visitor cookie.
	Store sessions.Store
	// SessionTTL is how long an unused dashboard is kept.
	SessionTTL time.Duration
}

type server struct {
	Options
	dashboards *cache.Timed[*view.Dashboard]
	index      *template.Template
}

// Register adds the tide dashboard routes to r.
func Register(r *mux.Router, opts Options) {
	if opts.SessionTTL == 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	s := &server{
		Options:    opts,
		dashboards: cache.NewTimed[*view.Dashboard](opts.SessionTTL),
		index:      template.Must(template.ParseFS(opts.Content, "static/index.template.html")),
	}

	r.Handle("/", s.makeIndexHandler()).Methods(http.MethodGet)
	r.Handle("/fetch", s.makeFetchHandler()).Methods(http.MethodPost)
	r.Handle("/edit", s.makeEditHandler()).Methods(http.MethodPost)
	r.Handle("/chart.png", s.makeChartHandler()).Methods(http.MethodGet)
	r.Handle("/api/v1/predictions", s.makeServePredictions()).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.StripPrefix(strings.TrimSuffix(opts.Prefix, "/"), http.FileServer(http.FS(opts.Content))))
}

// dashboard finds the visitor's dashboard, starting a new visit if the
// request has no valid cookie.
func (s *server) dashboard(w http.ResponseWriter, r *http.Request) *view.Dashboard {
	session, err := s.Store.Get(r, sessionName)
	if err != nil {
		log.Printf("Discarding bad session cookie: %v", err)
	}

	id, ok := session.Values[visitorID].(string)
	if ok && id != "" {
		return s.dashboards.GetOrCreate(id, view.New)
	}

	id = uuid.NewString()
	session.Values[visitorID] = id
	if err := session.Save(r, w); err != nil {
		log.Println("save session err", err)
	}
	dash := s.dashboards.GetOrCreate(id, view.New)
	metrics.SetDashboards(s.dashboards.Sweep())
	return dash
}

func (s *server) makeIndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.dashboard(w, r).Snapshot()
		s.render(w, http.StatusOK, newTemplateInput(s.Prefix, snap, nil))
	}
}

func (s *server) makeFetchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dash := s.dashboard(w, r)

		if err := r.ParseForm(); err != nil {
			log.Printf("Failed to parse form: %v", err)
			s.render(w, http.StatusBadRequest, newTemplateInput(s.Prefix, dash.Snapshot(), err))
			return
		}
		dates, opts, err := parseForm(r.PostForm)
		if err != nil {
			log.Printf("Rejected form: %v", err)
			s.render(w, http.StatusBadRequest, newTemplateInput(s.Prefix, dash.Snapshot(), err))
			return
		}

		results, err := dash.Submit(dates, opts, s.Fetcher)
		if errors.Is(err, view.ErrBusy) {
			// Already loading; the page shows progress.
			s.redirectHome(w, r)
			return
		}
		select {
		case <-results:
		case <-r.Context().Done():
			return
		}
		s.redirectHome(w, r)
	}
}

func (s *server) makeEditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.dashboard(w, r).Edit()
		s.redirectHome(w, r)
	}
}

func (s *server) makeChartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.dashboard(w, r).Snapshot()
		if snap.Last == nil {
			http.Error(w, "No predictions fetched yet", http.StatusNotFound)
			return
		}

		img, err := visualize.NewTidal(snap.Last.Predictions, snap.Last.Query.Options)
		if err != nil {
			log.Printf("Failed to build chart: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var b bytes.Buffer
		if err := img.EncodePNG(&b); err != nil {
			if errors.Is(err, visualize.ErrNotEnoughData) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			log.Printf("Failed to render chart: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Add("Content-Type", "image/png")
		w.Header().Add("Content-Disposition", `inline; filename="tides.png"`)
		w.WriteHeader(http.StatusOK)
		w.Write(b.Bytes())
	}
}

// apiResult is the JSON form of a dashboard.
type apiResult struct {
	State string      `json:"state"`
	Query *noaa.Query `json:"query,omitempty"`
	Error string      `json:"error,omitempty"`
	*apiData
}

type apiData struct {
	Series      transform.ChartSeries `json:"series"`
	Rows        []transform.Row       `json:"rows"`
	Predictions noaa.Predictions      `json:"predictions"`
}

func (s *server) makeServePredictions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.dashboard(w, r).Snapshot()
		out := apiResult{State: snap.State.String()}
		if snap.Err != nil {
			out.Error = snap.Err.Error()
		}
		if snap.Last != nil {
			out.Query = &snap.Last.Query
			out.apiData = &apiData{
				Series:      snap.Last.Series,
				Rows:        snap.Last.Rows,
				Predictions: snap.Last.Predictions,
			}
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Printf("Failed to encode JSON result: %+v", err)
		}
	}
}

func (s *server) render(w http.ResponseWriter, code int, input TemplateInput) {
	var b bytes.Buffer
	if err := s.index.Execute(&b, input); err != nil {
		log.Printf("Failed to execute template: %v", err)
		http.Error(w, fmt.Sprintf("Failed to render page: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "text/html")
	w.WriteHeader(code)
	w.Write(b.Bytes())
}

func (s *server) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, basePath(s.Prefix), http.StatusSeeOther)
}

// basePath is prefix as a directory, so relative routes can be appended.
func basePath(prefix string) string {
	p := path.Join("/", prefix)
	if p == "/" {
		return p
	}
	return p + "/"
}
