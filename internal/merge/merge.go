// Package merge reconciles the Source A and Source B listings of one day
// into a single deduplicated list.
//
// Matching is greedy: each Source A event takes the first unconsumed Source B
// event that passes IsSameGame, in list order. Every input event appears in
// exactly one merged record.
package merge

import (
	"math"
	"sort"
	"strings"

	"github.com/pfrederiksen/tvfixtures/internal/event"
	"github.com/pfrederiksen/tvfixtures/internal/normalize"
)

const (
	DefaultMaxMinutes = 300
	DefaultMinScore   = 70
)

// Merger holds the matching policy.
type Merger struct {
	norm       *normalize.Normalizer
	ratio      normalize.Ratio
	maxMinutes int
	minScore   int
	highlight  []string
}

// Option configures a Merger.
type Option func(*Merger)

// WithRatio replaces the default token-set ratio.
func WithRatio(r normalize.Ratio) Option { return func(m *Merger) { m.ratio = r } }

// WithThresholds sets the kickoff distance ceiling and the minimum pairing score.
func WithThresholds(maxMinutes, minScore int) Option {
	return func(m *Merger) {
		m.maxMinutes = maxMinutes
		m.minScore = minScore
	}
}

// WithHighlight sets the broadcaster allow-list used to order merged channels.
func WithHighlight(h []string) Option { return func(m *Merger) { m.highlight = h } }

// New creates a Merger that cleans names with norm.
func New(norm *normalize.Normalizer, opts ...Option) *Merger {
	m := &Merger{
		norm:       norm,
		ratio:      normalize.TokenSetRatio,
		maxMinutes: DefaultMaxMinutes,
		minScore:   DefaultMinScore,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Stats describes a merge.
type Stats struct {
	Matched int // Source B events folded into a Source A event
	OnlyA   int
	OnlyB   int
	Total   int
}

// IsSameGame reports whether g (Source A) and h (Source B) describe the same
// fixture. Events whose times cannot be reconstructed never match.
func (m *Merger) IsSameGame(g, h *event.Event) bool {
	tg, ok := kickoff(g)
	if !ok {
		return false
	}
	th, ok := kickoff(h)
	if !ok {
		return false
	}
	if math.Abs(tg.Sub(th).Minutes()) > float64(m.maxMinutes) {
		return false
	}

	gh, ga := m.norm.CleanName(g.Home), m.norm.CleanName(g.Away)
	hh, ha := m.norm.CleanName(h.Home), m.norm.CleanName(h.Away)
	direct := float64(m.ratio(gh, hh)+m.ratio(ga, ha)) / 2
	cross := float64(m.ratio(gh, ha)+m.ratio(ga, hh)) / 2
	return math.Max(direct, cross) >= float64(m.minScore)
}

// Merge combines the two listings. The inputs are not modified.
func (m *Merger) Merge(a, b []*event.Event) ([]*event.MergedEvent, Stats) {
	consumed := make([]bool, len(b))
	out := make([]*event.MergedEvent, 0, len(a)+len(b))
	var stats Stats

	for _, g := range a {
		var match *event.Event
		for j, h := range b {
			if consumed[j] {
				continue
			}
			if m.IsSameGame(g, h) {
				consumed[j] = true
				match = h
				break
			}
		}
		if match != nil {
			stats.Matched++
		} else {
			stats.OnlyA++
		}
		out = append(out, m.combine(g, match))
	}

	for j, h := range b {
		if consumed[j] {
			continue
		}
		stats.OnlyB++
		out = append(out, m.single(h))
	}

	Sort(out)
	stats.Total = len(out)
	return out, stats
}

// combine builds the record for a Source A event and its optional match.
func (m *Merger) combine(g, h *event.Event) *event.MergedEvent {
	me := &event.MergedEvent{
		Home:         g.Home,
		Away:         g.Away,
		TeamsDisplay: g.TeamsDisplay,
		TimeLocal:    g.TimeLocal,
		TimeDisplay:  g.Clock(),
		Competition:  g.Competition,
		Sources:      []event.Source{g.Source},
	}
	if h == nil {
		me.Channels = event.UnionChannels(m.highlight, g.Channels)
		return me
	}

	me.Channels = event.UnionChannels(m.highlight, g.Channels, h.Channels)
	me.Sources = append(me.Sources, h.Source)
	me.TimeLocal = h.TimeLocal
	me.TimeDisplay = h.Clock()
	if h.Competition != "" {
		me.Competition = h.Competition
	}
	return me
}

func (m *Merger) single(h *event.Event) *event.MergedEvent {
	return &event.MergedEvent{
		Home:         h.Home,
		Away:         h.Away,
		TeamsDisplay: h.TeamsDisplay,
		TimeLocal:    h.TimeLocal,
		TimeDisplay:  h.Clock(),
		Competition:  h.Competition,
		Channels:     event.UnionChannels(m.highlight, h.Channels),
		Sources:      []event.Source{h.Source},
	}
}

// Sort orders merged events by timeLocal, then case-insensitively by teams.
func Sort(events []*event.MergedEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].TimeLocal != events[j].TimeLocal {
			return events[i].TimeLocal < events[j].TimeLocal
		}
		return strings.ToLower(events[i].TeamsDisplay) < strings.ToLower(events[j].TeamsDisplay)
	})
}
