package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kelseyhightower/envconfig"

	"github.com/spencer-p/tidechart/pkg/noaa"
)

func TestParseMonthDay(t *testing.T) {
	table := []struct {
		in         string
		month, day int
		wantErr    bool
	}{
		{in: "4/5", month: 4, day: 5},
		{in: "12/31", month: 12, day: 31},
		{in: "2/30", month: 2, day: 30},
		{in: "13/1", wantErr: true},
		{in: "4/0", wantErr: true},
		{in: "4-5", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range table {
		t.Run(tc.in, func(t *testing.T) {
			m, d, err := parseMonthDay(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Errorf("parseMonthDay(%q) = %d/%d, want error", tc.in, m, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMonthDay(%q) failed: %v", tc.in, err)
			}
			if m != tc.month || d != tc.day {
				t.Errorf("parseMonthDay(%q) = %d/%d, want %d/%d", tc.in, m, d, tc.month, tc.day)
			}
		})
	}
}

func TestFlagsParse(t *testing.T) {
	f := flags{station: "9447130", from: "4/5", to: "4/12", units: "Feet", tz: "gmt", datum: "MHW"}
	dates, opts, err := f.parse()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(noaa.DateSelection{StartMonth: 4, StartDay: 5, EndMonth: 4, EndDay: 12}, dates); diff != "" {
		t.Errorf("wrong dates (-want,+got):\n%s", diff)
	}
	want := noaa.QueryOptions{StationID: "9447130", Unit: noaa.English, TimeZone: noaa.GMT, Datum: noaa.MHW}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("wrong options (-want,+got):\n%s", diff)
	}

	bad := f
	bad.units = "Fathoms"
	if _, _, err := bad.parse(); err == nil {
		t.Errorf("parse accepted units %q", bad.units)
	}
}

const noaaBody = `{"predictions":[
{"t":"2024-04-05 03:15","v":"1.2","type":"L"},
{"t":"2024-04-05 09:40","v":"5.8","type":"H"},
{"t":"2024-04-06 04:01","v":"1.0","type":"L"}]}`

func fakeNOAA(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "hilo" {
			t.Errorf("interval = %q, want hilo", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	var env Config
	if err := envconfig.Process("", &env); err != nil {
		t.Fatal(err)
	}
	cmd := newRootCmd(env)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTable(t *testing.T) {
	srv := fakeNOAA(t, noaaBody)
	out, err := execute(t, "--url", srv.URL, "--from", "4/5", "--to", "4/6", "--units", "Feet")
	if err != nil {
		t.Fatalf("tides failed: %v\n%s", err, out)
	}
	for _, want := range []string{"9414290 San Francisco, CA", "2024-04-05", "2024-04-06", "09:40", "5.8", "High", "Low"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "2024-04-05") > strings.Index(out, "2024-04-06") {
		t.Errorf("days out of order:\n%s", out)
	}
}

func TestJSON(t *testing.T) {
	srv := fakeNOAA(t, noaaBody)
	out, err := execute(t, "--url", srv.URL, "--json", "--station", "9413745")
	if err != nil {
		t.Fatalf("tides failed: %v\n%s", err, out)
	}
	var got struct {
		Query struct {
			Options struct {
				Station string `json:"station"`
			} `json:"options"`
		} `json:"query"`
		Rows []struct {
			Time  string `json:"time"`
			Value string `json:"value"`
			Type  string `json:"type"`
		} `json:"rows"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("bad json %q: %v", out, err)
	}
	if got.Query.Options.Station != "9413745" {
		t.Errorf("station = %q", got.Query.Options.Station)
	}
	if len(got.Rows) != 3 || got.Rows[1].Time != "09:40" || got.Rows[1].Type != "H" {
		t.Errorf("wrong rows: %+v", got.Rows)
	}
}

func TestAPIError(t *testing.T) {
	srv := fakeNOAA(t, `{"error":{"message":"No Predictions data was found."}}`)
	_, err := execute(t, "--url", srv.URL)
	if err == nil || !strings.Contains(err.Error(), "No Predictions data was found.") {
		t.Errorf("err = %v, want NOAA's message", err)
	}
}

func TestBadFlag(t *testing.T) {
	if _, err := execute(t, "--datum", "NAVD88"); err == nil {
		t.Error("accepted datum NAVD88")
	}
}

func TestConfigFromEnv(t *testing.T) {
	srv := fakeNOAA(t, noaaBody)
	t.Setenv("NOAA_URL", srv.URL)
	t.Setenv("APPLICATION", "tides-test")

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		t.Fatal(err)
	}
	if env.NOAAURL != srv.URL || env.Application != "tides-test" {
		t.Errorf("config = %+v", env)
	}

	// No --url: the default comes from the environment.
	if out, err := execute(t, "--json"); err != nil {
		t.Fatalf("tides failed: %v\n%s", err, out)
	}
}

func TestConfigDefaults(t *testing.T) {
	// Setenv restores the variables after the test; unset them for its
	// duration so the defaults apply.
	for _, key := range []string{"NOAA_URL", "APPLICATION"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		t.Fatal(err)
	}
	want := Config{NOAAURL: noaa.NOAA_URL, Application: "tidechart"}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("wrong defaults (-want,+got):\n%s", diff)
	}
}
