package event

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"strings"
)

// Source identifies an upstream schedule provider.
type Source string

const (
	SourceLiveOnSat   Source = "LiveOnSat"
	SourceSportEventz Source = "SportEventz"
)

// Event is a single listing extracted from one source.
type Event struct {
	Source       Source   `json:"source"`
	Home         string   `json:"home"`
	Away         string   `json:"away"`
	TeamsDisplay string   `json:"teamsDisplay"`
	TimeLocal    string   `json:"timeLocal"`   // "YYYY-MM-DD HH:MM"
	TimeDisplay  string   `json:"timeDisplay"` // token exactly as the source printed it
	TimeStr      string   `json:"timeStr"`
	Competition  string   `json:"competition"`
	Channels     []string `json:"channels"`
}

// MergedEvent is a reconciled listing. It is built once by the merger and
// never modified afterwards.
type MergedEvent struct {
	Home         string   `json:"home"`
	Away         string   `json:"away"`
	TeamsDisplay string   `json:"teamsDisplay"`
	TimeLocal    string   `json:"timeLocal"`
	TimeDisplay  string   `json:"timeDisplay"`
	Competition  string   `json:"competition"`
	Channels     []string `json:"channels"`
	Sources      []Source `json:"sources"`
}

var (
	ErrMissingTeams = errors.New("missing team pair")
	ErrInvalidTime  = errors.New("invalid kickoff time")
)

// NewEvent builds an Event for the given day. home and away are trimmed and
// must be non-empty; timeStr must be H:MM or HH:MM. channels must already be
// cleaned and ordered (see Channels).
func NewEvent(src Source, dateISO, home, away, timeStr, competition string, channels []string) (*Event, error) {
	home = strings.TrimSpace(home)
	away = strings.TrimSpace(away)
	if home == "" || away == "" {
		return nil, ErrMissingTeams
	}
	timeStr = strings.TrimSpace(timeStr)
	local, err := LocalTime(dateISO, timeStr)
	if err != nil {
		return nil, err
	}
	if channels == nil {
		channels = []string{}
	}
	return &Event{
		Source:       src,
		Home:         home,
		Away:         away,
		TeamsDisplay: TeamsDisplay(home, away),
		TimeLocal:    local,
		TimeDisplay:  timeStr,
		TimeStr:      timeStr,
		Competition:  strings.TrimSpace(competition),
		Channels:     channels,
	}, nil
}

// TeamsDisplay formats a fixture as "<home> v <away>".
func TeamsDisplay(home, away string) string {
	return home + " v " + away
}

// Date returns the YYYY-MM-DD part of TimeLocal.
func (e *Event) Date() string {
	if len(e.TimeLocal) < 10 {
		return ""
	}
	return e.TimeLocal[:10]
}

// Clock returns the displayed HH:MM of the event, falling back to the
// clock part of TimeLocal.
func (e *Event) Clock() string {
	switch {
	case e.TimeDisplay != "":
		return e.TimeDisplay
	case e.TimeStr != "":
		return e.TimeStr
	case len(e.TimeLocal) >= 16:
		return e.TimeLocal[11:16]
	}
	return ""
}

// GenerateID creates a deterministic ID for a merged listing. It is stable
// for identical output but carries no identity across runs.
func GenerateID(timeLocal, teamsDisplay string) string {
	h := sha1.New()
	h.Write([]byte(timeLocal + "|" + strings.ToLower(teamsDisplay)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ID is GenerateID applied to the listing.
func (m *MergedEvent) ID() string {
	return GenerateID(m.TimeLocal, m.TeamsDisplay)
}

// HasSource reports whether src contributed to the listing.
func (m *MergedEvent) HasSource(src Source) bool {
	for _, s := range m.Sources {
		if s == src {
			return true
		}
	}
	return false
}
