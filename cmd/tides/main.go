// Command tides prints NOAA high/low tide predictions for one station.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/spencer-p/tidechart/pkg/noaa"
	"github.com/spencer-p/tidechart/pkg/transform"
	"github.com/spencer-p/tidechart/pkg/view"
)

// Config holds the environment defaults shared with the server.
type Config struct {
	NOAAURL     string `envconfig:"NOAA_URL" default:"https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"`
	Application string `default:"tidechart"`
}

type flags struct {
	station  string
	from, to string
	units    string
	tz       string
	datum    string
	asJSON   bool

	url         string
	application string
	timeout     time.Duration
}

func newRootCmd(env Config) *cobra.Command {
	var f flags
	now := time.Now()
	defaults := noaa.DefaultOptions()
	dates := noaa.DefaultDates(now)

	cmd := &cobra.Command{
		Use:   "tides",
		Short: "Print high and low tide predictions from NOAA",
		Long: `Print high and low tide predictions for a NOAA station.

Dates are month/day in the current year, e.g. --from 4/5 --to 4/12.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVarP(&f.station, "station", "s", defaults.StationID, "NOAA station code")
	cmd.Flags().StringVar(&f.from, "from", formatMonthDay(dates.StartMonth, dates.StartDay), "First day, M/D")
	cmd.Flags().StringVar(&f.to, "to", formatMonthDay(dates.EndMonth, dates.EndDay), "Last day, M/D")
	cmd.Flags().StringVarP(&f.units, "units", "u", defaults.Unit.String(), "Meters or Feet")
	cmd.Flags().StringVar(&f.tz, "tz", string(defaults.TimeZone), "Time zone: gmt, lst or lst_ldt")
	cmd.Flags().StringVar(&f.datum, "datum", string(defaults.Datum), "Datum: MHHW, MHW, MTL or MLLW")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print rows as JSON")

	cmd.Flags().StringVar(&f.url, "url", env.NOAAURL, "Datagetter endpoint")
	cmd.Flags().StringVar(&f.application, "application", env.Application, "Application name sent to NOAA")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Give up on NOAA after this long (0 waits forever)")

	cmd.AddCommand(newStationsCmd())
	return cmd
}

func newStationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stations",
		Short: "List the stations offered on the dashboard",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, s := range noaa.Stations {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.ID, s.Name)
			}
		},
	}
}

func run(ctx context.Context, w io.Writer, f flags) error {
	dates, opts, err := f.parse()
	if err != nil {
		return err
	}

	results, err := view.New().Submit(dates, opts, noaa.NewClient(f.url, f.application, f.timeout))
	if err != nil {
		return err
	}

	var res view.Result
	select {
	case res = <-results:
	case <-ctx.Done():
		return ctx.Err()
	}
	if res.Err != nil {
		return res.Err
	}

	if f.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Query noaa.Query      `json:"query"`
			Rows  []transform.Row `json:"rows"`
		}{res.Query, res.Rows})
	}
	_, err = io.WriteString(w, renderTable(res))
	return err
}

func main() {
	_ = godotenv.Load()

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd(env).Execute(); err != nil {
		os.Exit(1)
	}
}
