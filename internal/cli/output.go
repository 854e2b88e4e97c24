package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/tvfixtures/internal/calendar"
	"github.com/pfrederiksen/tvfixtures/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// OutputOptions controls rendering of a snapshot.
type OutputOptions struct {
	Format   OutputFormat
	Verbose  bool
	Filter   string         // description of active filters, text only
	Location *time.Location // ics only
	Now      time.Time      // ics only
}

// WriteOutput writes the snapshot in the specified format
func WriteOutput(w io.Writer, snap *event.Snapshot, opts OutputOptions) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, snap)
	case FormatText:
		return writeText(w, snap, opts)
	case FormatICS:
		loc := opts.Location
		if loc == nil {
			loc = time.UTC
		}
		_, err := io.WriteString(w, calendar.GenerateICS(snap.Events, "TV fixtures "+snap.Date, loc, opts.Now))
		return err
	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}
}

// writeJSON outputs the snapshot exactly as it is stored
func writeJSON(w io.Writer, snap *event.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(snap)
}

// writeText outputs the snapshot as a human-readable listing
func writeText(w io.Writer, snap *event.Snapshot, opts OutputOptions) error {
	if snap.Failed() {
		fmt.Fprintf(w, "Run for %s failed at %s: %s\n", snap.Date, snap.GeneratedAt, snap.Error)
		return nil
	}

	if snap.Date == "" {
		fmt.Fprintln(w, "No snapshot yet. Run 'tvfixtures run' first.")
		return nil
	}

	header := fmt.Sprintf("Fixtures for %s", snap.Date)
	if snap.TimezoneLabel != "" {
		header += fmt.Sprintf(" (%s)", snap.TimezoneLabel)
	}
	fmt.Fprintln(w, header)
	if opts.Filter != "" {
		fmt.Fprintf(w, "Filters: %s\n", opts.Filter)
	}

	if len(snap.Events) == 0 {
		fmt.Fprintln(w, "\nNo events found.")
		return nil
	}

	fmt.Fprintln(w)
	for _, evt := range snap.Events {
		line := fmt.Sprintf("%5s  %s", evt.TimeDisplay, evt.TeamsDisplay)
		if evt.Competition != "" {
			line += fmt.Sprintf("  [%s]", evt.Competition)
		}
		fmt.Fprintln(w, line)
		if len(evt.Channels) > 0 {
			fmt.Fprintf(w, "       %s\n", strings.Join(evt.Channels, ", "))
		}
		if opts.Verbose {
			sources := make([]string, len(evt.Sources))
			for i, s := range evt.Sources {
				sources[i] = string(s)
			}
			fmt.Fprintf(w, "       ID: %s\n", evt.ID())
			fmt.Fprintf(w, "       Sources: %s\n", strings.Join(sources, ", "))
		}
	}

	fmt.Fprintf(w, "\nTotal: %d events", len(snap.Events))
	if c := snap.Counters; c != nil {
		fmt.Fprintf(w, " (%s %d, %s %d, merged %d)", event.SourceLiveOnSat, c.SourceACount, event.SourceSportEventz, c.SourceBCount, c.Total)
	}
	fmt.Fprintf(w, "\nGenerated: %s\n", snap.GeneratedAt)
	return nil
}
