// Package render writes the trip collection for people and for other tools.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/trivial-trip-planner/internal/datecalc"
	"github.com/Tiliavir/trivial-trip-planner/internal/model"
	"github.com/Tiliavir/trivial-trip-planner/internal/storage"
)

// Formats accepted by Export.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatMD   = "md"
)

var (
	destinationStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89ddff"))
	spanStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#b4c4b4"))
	headingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#b9a3eb"))
	ErrorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e61f44"))
)

// sections pairs list headings with their accessor, in display order.
var sections = []struct {
	title string
	list  func(model.Trip) []string
}{
	{"Activities", func(t model.Trip) []string { return t.Activities }},
	{"Expenses", func(t model.Trip) []string { return t.Expenses }},
	{"Travel Companions", func(t model.Trip) []string { return t.Companions }},
}

// List prints trips numbered from 1, the numbers the edit and delete
// commands take.
func List(w io.Writer, trips []model.Trip) {
	if len(trips) == 0 {
		fmt.Fprintln(w, "No trips planned.")
		return
	}
	for i, t := range trips {
		fmt.Fprintf(w, "%d. %s  %s\n", i+1,
			destinationStyle.Render(t.Destination),
			spanStyle.Render(datecalc.FormatSpan(t.StartDate, t.EndDate)))
		for _, s := range sections {
			items := s.list(t)
			if len(items) == 0 {
				continue
			}
			fmt.Fprintf(w, "   %s\n", headingStyle.Render(s.title+":"))
			for _, item := range items {
				fmt.Fprintf(w, "     - %s\n", item)
			}
		}
	}
}

// Export writes trips in the given format.
func Export(w io.Writer, trips []model.Trip, format string) error {
	switch format {
	case FormatJSON:
		return JSON(w, trips)
	case FormatCSV:
		CSV(w, trips)
		return nil
	case FormatMD:
		Markdown(w, trips)
		return nil
	}
	return fmt.Errorf("unknown format %q (want json, csv or md)", format)
}

// JSON writes the collection exactly as the file store persists it.
func JSON(w io.Writer, trips []model.Trip) error {
	data, err := storage.Encode(trips, true)
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// CSV writes one row per trip; list fields are joined with "; ".
func CSV(w io.Writer, trips []model.Trip) {
	fmt.Fprintln(w, "start_date,end_date,days,destination,activities,expenses,companions")
	for _, t := range trips {
		days := ""
		if n, ok := datecalc.Days(t.StartDate, t.EndDate); ok {
			days = fmt.Sprint(n)
		}
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s\n",
			csvEscape(t.StartDate),
			csvEscape(t.EndDate),
			days,
			csvEscape(t.Destination),
			csvEscape(strings.Join(t.Activities, "; ")),
			csvEscape(strings.Join(t.Expenses, "; ")),
			csvEscape(strings.Join(t.Companions, "; ")),
		)
	}
}

// Markdown writes a heading per trip followed by its lists.
func Markdown(w io.Writer, trips []model.Trip) {
	fmt.Fprintln(w, "# Your Trips")
	for _, t := range trips {
		fmt.Fprintf(w, "\n## %s\n\n%s\n", t.Destination, datecalc.FormatSpan(t.StartDate, t.EndDate))
		for _, s := range sections {
			items := s.list(t)
			if len(items) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n### %s\n\n", s.title)
			for _, item := range items {
				fmt.Fprintf(w, "- %s\n", item)
			}
		}
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
