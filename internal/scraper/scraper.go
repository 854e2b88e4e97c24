package scraper

import (
	"io"
	"time"

	"github.com/pfrederiksen/tvfixtures/internal/event"
)

// Source is one upstream schedule provider.
type Source interface {
	// Name is the provenance label written to merged events.
	Name() event.Source
	// URL returns the listing URL for the given calendar day.
	URL(day time.Time) string
	// Parse extracts the day's events from a raw or rendered document.
	Parse(r io.Reader, dateISO string) (*Result, error)
}

// RenderHinter is implemented by sources whose rows may be produced by
// client-side script. When any marker occurs in the raw document but nothing
// matches RowSelector, the page has to be rendered in a browser.
type RenderHinter interface {
	RenderMarkers() []string
	RowSelector() string
}

// Result is the outcome of parsing one document.
type Result struct {
	Events  []*event.Event
	Rows    int // candidate rows inspected
	Skipped int // rows dropped for a missing time or team pair
	Variant string
}

func (r *Result) add(evt *event.Event, err error) {
	r.Rows++
	if err != nil {
		r.Skipped++
		return
	}
	r.Events = append(r.Events, evt)
}
