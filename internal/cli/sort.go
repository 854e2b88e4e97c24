package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/tvfixtures/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByTime        SortOrder = "time"
	SortByTeams       SortOrder = "teams"
	SortByCompetition SortOrder = "competition"
)

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.MergedEvent, sortOrder SortOrder) {
	switch sortOrder {
	case SortByTime:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByTime(events[i], events[j])
		})
	case SortByTeams:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].TeamsDisplay), strings.ToLower(events[j].TeamsDisplay)
			if ti != tj {
				return ti < tj
			}
			return events[i].TimeLocal < events[j].TimeLocal
		})
	case SortByCompetition:
		sort.SliceStable(events, func(i, j int) bool {
			ci, cj := strings.ToLower(events[i].Competition), strings.ToLower(events[j].Competition)
			if ci != cj {
				// unlabelled fixtures go last
				if ci == "" || cj == "" {
					return cj == ""
				}
				return ci < cj
			}
			return compareByTime(events[i], events[j])
		})
	}
}

// compareByTime orders by kickoff, then by teams.
// Returns true if event i should come before event j
func compareByTime(i, j *event.MergedEvent) bool {
	if i.TimeLocal != j.TimeLocal {
		return i.TimeLocal < j.TimeLocal
	}
	return strings.ToLower(i.TeamsDisplay) < strings.ToLower(j.TeamsDisplay)
}

func validSort(s SortOrder) bool {
	return s == SortByTime || s == SortByTeams || s == SortByCompetition
}
