// Package filter narrows a merged schedule down to what a viewer cares about.
//
// Criteria:
//   - Channels: broadcaster chips such as "DAZN" or "SKY SPORT" (case-insensitive
//     substring of any channel; any chip may match)
//   - Terms: free text split on commas and spaces; every term must occur in
//     the teams, competition, channels or sources of an event
//   - Sources: provenance ("LiveOnSat", "SportEventz"); any may match
//   - Kickoff window: an inclusive HH:MM range
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Channels = []string{"DAZN"}
//	f.Terms = filter.ParseTerms("serie a, milan")
//	games := f.Apply(snapshot.Events)
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/tvfixtures/internal/event"
)

// Filter represents event filtering criteria
type Filter struct {
	Channels []string `json:"channels,omitempty"`
	Terms    []string `json:"terms,omitempty"`
	Sources  []string `json:"sources,omitempty"`

	// Kickoff window in minutes since midnight; nil = open
	From *int `json:"from,omitempty"`
	To   *int `json:"to,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Channels: []string{},
		Terms:    []string{},
		Sources:  []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.Channels) == 0 &&
		len(f.Terms) == 0 &&
		len(f.Sources) == 0 &&
		f.From == nil &&
		f.To == nil
}

// Matches checks if an event matches all active filter criteria.
// An empty filter matches all events.
func (f *Filter) Matches(evt *event.MergedEvent) bool {
	if f.IsEmpty() {
		return true
	}

	if f.From != nil || f.To != nil {
		mins, err := event.ParseClock(clockOf(evt))
		if err != nil {
			return false
		}
		if f.From != nil && mins < *f.From {
			return false
		}
		if f.To != nil && mins > *f.To {
			return false
		}
	}

	if len(f.Channels) > 0 {
		matched := false
		for _, chip := range f.Channels {
			chip = strings.ToLower(chip)
			for _, c := range evt.Channels {
				if strings.Contains(strings.ToLower(c), chip) {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Sources) > 0 {
		matched := false
		for _, s := range f.Sources {
			for _, have := range evt.Sources {
				if strings.EqualFold(string(have), s) {
					matched = true
				}
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Terms) > 0 {
		hay := haystack(evt)
		for _, term := range f.Terms {
			if !strings.Contains(hay, strings.ToLower(term)) {
				return false
			}
		}
	}

	return true
}

// Apply applies the filter to a list of events and returns only matching events.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(events []*event.MergedEvent) []*event.MergedEvent {
	if f.IsEmpty() {
		return events
	}

	filtered := []*event.MergedEvent{}
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "Channels: DAZN | Search: milan | Kickoff: 18:00-23:59"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.Channels) > 0 {
		parts = append(parts, fmt.Sprintf("Channels: %s", strings.Join(f.Channels, ", ")))
	}

	if len(f.Terms) > 0 {
		parts = append(parts, fmt.Sprintf("Search: %s", strings.Join(f.Terms, " ")))
	}

	if len(f.Sources) > 0 {
		parts = append(parts, fmt.Sprintf("Sources: %s", strings.Join(f.Sources, ", ")))
	}

	if f.From != nil || f.To != nil {
		from, to := 0, 23*60+59
		if f.From != nil {
			from = *f.From
		}
		if f.To != nil {
			to = *f.To
		}
		parts = append(parts, fmt.Sprintf("Kickoff: %s-%s", formatClock(from), formatClock(to)))
	}

	return strings.Join(parts, " | ")
}

// haystack is the lowercased text searched by Terms.
func haystack(evt *event.MergedEvent) string {
	sources := make([]string, len(evt.Sources))
	for i, s := range evt.Sources {
		sources[i] = string(s)
	}
	return strings.ToLower(strings.Join([]string{
		evt.TeamsDisplay,
		evt.Competition,
		strings.Join(evt.Channels, " "),
		strings.Join(sources, " "),
	}, " | "))
}

func clockOf(evt *event.MergedEvent) string {
	if evt.TimeDisplay != "" {
		return evt.TimeDisplay
	}
	if len(evt.TimeLocal) >= 16 {
		return evt.TimeLocal[11:16]
	}
	return ""
}

func formatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
