package main

import (
	"crypto/sha1"
	"embed"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/pbkdf2"

	"github.com/spencer-p/tidechart/pkg/handlers"
	"github.com/spencer-p/tidechart/pkg/metrics"
	"github.com/spencer-p/tidechart/pkg/noaa"
)

//go:embed static
var content embed.FS

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`

	NOAAURL     string `envconfig:"NOAA_URL" default:"https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"`
	Application string `default:"tidechart"`
	// Zero waits on NOAA indefinitely.
	FetchTimeout time.Duration `split_words:"true" default:"0"`

	SessionTTL    time.Duration `split_words:"true" default:"24h"`
	SessionKey    string        `split_words:"true" default:"deadbeef"`
	EncryptionKey string        `split_words:"true" default:"deadbeef"`
	SecureCookie  bool          `split_words:"true" default:"true"`
}

func newStore(env Config) *sessions.CookieStore {
	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			[]byte(env.SessionKey),
			pbkdf2.Key([]byte(env.EncryptionKey), []byte{}, 4096, 32, sha1.New),
		),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(env.SessionTTL.Seconds()),
			Secure:   env.SecureCookie,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
	store.MaxAge(store.Options.MaxAge)
	return store
}

func main() {
	// A .env file is optional.
	_ = godotenv.Load()

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err.Error())
	}

	r := mux.NewRouter().StrictSlash(true)
	r.Handle("/metrics", promhttp.Handler())
	r.Use(metrics.LatencyHandler)

	s := r.PathPrefix(env.Prefix).Subrouter()

	handlers.Register(s, handlers.Options{
		Prefix:     env.Prefix,
		Content:    content,
		Fetcher:    noaa.NewClient(env.NOAAURL, env.Application, env.FetchTimeout),
		Store:      newStore(env),
		SessionTTL: env.SessionTTL,
	})
	srv := &http.Server{
		Handler:     r,
		Addr:        "0.0.0.0:" + env.Port,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: /fetch holds the request open until NOAA answers.
	}
	log.Printf("Listening and serving on %s%s", srv.Addr, env.Prefix)
	log.Fatal(srv.ListenAndServe())
}
