package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/spencer-p/tidechart/pkg/noaa"
	"github.com/spencer-p/tidechart/pkg/transform"
	"github.com/spencer-p/tidechart/pkg/view"
)

var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorMuted   = lipgloss.Color("#6C757D")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	dateStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	cellStyle = lipgloss.NewStyle().
			Width(10)
)

// renderTable lays out a fetch result one block per day.
func renderTable(res view.Result) string {
	opts := res.Query.Options
	station := opts.StationID
	if s, ok := noaa.LookupStation(station); ok {
		station += " " + s.Name
	}

	sections := []string{
		titleStyle.Render("Tide predictions at " + station),
		mutedStyle.Render(fmt.Sprintf("%s to %s, %s above %s, %s",
			res.Query.BeginDate, res.Query.EndDate, opts.Unit, opts.Datum, opts.TimeZone)),
	}
	if len(res.Rows) == 0 {
		sections = append(sections, "No predictions")
	}
	for _, day := range transform.ByDay(res.Rows) {
		sections = append(sections, dateStyle.Render(day.Date))
		sections = append(sections, mutedStyle.Render(
			lipgloss.JoinHorizontal(lipgloss.Top,
				cellStyle.Render("Time"),
				cellStyle.Render(opts.Unit.String()),
				"High/Low")))
		for _, row := range day.Rows {
			sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
				cellStyle.Render(row.Time),
				cellStyle.Render(row.Value),
				row.Type.Label()))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}
