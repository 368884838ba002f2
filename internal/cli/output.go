package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/landmark-ics/internal/calendar"
	"github.com/pfrederiksen/landmark-ics/internal/event"
	"github.com/pfrederiksen/landmark-ics/internal/logger"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Result describes one finished build
type Result struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Output      string          `json:"output"`
	EventCount  int             `json:"event_count"`
	Events      []*event.Event  `json:"events"`
	Metrics     logger.Snapshot `json:"metrics"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *Result, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *Result, verbose bool) error {
	if verbose {
		for _, evt := range result.Events {
			status := ""
			if !evt.IsUpcoming(result.GeneratedAt) {
				status = " (started)"
			}
			fmt.Fprintf(w, "%s  %s%s\n", evt.Start.Format("Mon Jan 2 2006 3:04PM"), evt.Title, status)
			if evt.URL != "" {
				fmt.Fprintf(w, "     URL: %s\n", evt.URL)
			}
			fmt.Fprintf(w, "     UID: %s\n", evt.UID)
		}
		if len(result.Events) > 0 {
			fmt.Fprintln(w)
		}
	}

	_, err := fmt.Fprintf(w, "Wrote %s with %d events\n", result.Output, result.EventCount)
	return err
}

// writeEntries lists events read back from a calendar file
func writeEntries(w io.Writer, entries []calendar.Entry, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(w, "%s - %s  %s\n",
			e.Start.Format("Mon Jan 2 2006 3:04PM"),
			e.End.Format("3:04PM"),
			e.Summary)
		if e.URL != "" {
			fmt.Fprintf(w, "     URL: %s\n", e.URL)
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d events\n", len(entries))
	return err
}
