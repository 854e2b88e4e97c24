package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pfrederiksen/tvfixtures/internal/event"
)

var termSplit = regexp.MustCompile(`[,\s]+`)

// ParseTerms splits free-text search input on commas and whitespace.
func ParseTerms(input string) []string {
	terms := []string{}
	for _, t := range termSplit.Split(strings.TrimSpace(input), -1) {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// ParseChannels splits a comma-separated list of channel chips. Chips may
// contain spaces ("SKY SPORT").
func ParseChannels(input string) []string {
	chips := []string{}
	for _, c := range strings.Split(input, ",") {
		if c = strings.TrimSpace(c); c != "" {
			chips = append(chips, c)
		}
	}
	return chips
}

// ParseTimeRange parses a kickoff window.
//
// Supported formats:
//   - "18:00-22:30" - Closed window
//   - "18:00-" - From 18:00 until midnight
//   - "-12:00" - Until noon
//
// Returns (from, to, error) in minutes since midnight.
func ParseTimeRange(input string) (*int, *int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("time range cannot be empty")
	}

	lo, hi, ok := strings.Cut(input, "-")
	if !ok {
		return nil, nil, fmt.Errorf("invalid time range format. Use '18:00-22:30', '18:00-' or '-12:00'")
	}

	var from, to *int
	if lo = strings.TrimSpace(lo); lo != "" {
		m, err := event.ParseClock(lo)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start time: %s", lo)
		}
		from = &m
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		m, err := event.ParseClock(hi)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end time: %s", hi)
		}
		to = &m
	}

	if from == nil && to == nil {
		return nil, nil, fmt.Errorf("time range needs a start or an end")
	}
	if from != nil && to != nil && *from > *to {
		return nil, nil, fmt.Errorf("start time must be before end time")
	}
	return from, to, nil
}
