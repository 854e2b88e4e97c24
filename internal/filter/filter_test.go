package filter

import (
	"testing"

	"github.com/pfrederiksen/tvfixtures/internal/event"
)

func intPtr(v int) *int { return &v }

func sampleEvents() []*event.MergedEvent {
	return []*event.MergedEvent{
		{
			Home: "Everton", Away: "Fulham", TeamsDisplay: "Everton v Fulham",
			TimeLocal: "2026-03-07 14:30", TimeDisplay: "14:30",
			Competition: "English Premier League",
			Channels:    []string{"Canal+ Sport"},
			Sources:     []event.Source{event.SourceLiveOnSat},
		},
		{
			Home: "AC Milan", Away: "Inter", TeamsDisplay: "AC Milan v Inter",
			TimeLocal: "2026-03-07 18:00", TimeDisplay: "18:00",
			Competition: "Serie A",
			Channels:    []string{"DAZN", "Sky Sport Austria", "beIN Sports 1"},
			Sources:     []event.Source{event.SourceLiveOnSat, event.SourceSportEventz},
		},
		{
			Home: "Arsenal", Away: "Chelsea", TeamsDisplay: "Arsenal v Chelsea",
			TimeLocal: "2026-03-07 20:45", TimeDisplay: "20:45",
			Competition: "English Premier League",
			Channels:    []string{"DAZN", "Sky Sport", "NBC Sports"},
			Sources:     []event.Source{event.SourceLiveOnSat},
		},
	}
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{
			name:   "empty filter",
			filter: NewFilter(),
			want:   true,
		},
		{
			name:   "filter with channel",
			filter: &Filter{Channels: []string{"DAZN"}},
			want:   false,
		},
		{
			name:   "filter with kickoff start",
			filter: &Filter{From: intPtr(600)},
			want:   false,
		},
		{
			name:   "filter with terms",
			filter: &Filter{Terms: []string{"milan"}},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	events := sampleEvents()
	everton, milan, arsenal := events[0], events[1], events[2]

	tests := []struct {
		name   string
		filter *Filter
		event  *event.MergedEvent
		want   bool
	}{
		{"empty filter matches all", NewFilter(), everton, true},
		{"channel chip substring", &Filter{Channels: []string{"sky sport"}}, milan, true},
		{"channel chip any of", &Filter{Channels: []string{"ORF", "canal+"}}, everton, true},
		{"channel chip missing", &Filter{Channels: []string{"DAZN"}}, everton, false},
		{"term in teams", &Filter{Terms: []string{"Milan"}}, milan, true},
		{"term in competition", &Filter{Terms: []string{"premier"}}, arsenal, true},
		{"term in channels", &Filter{Terms: []string{"nbc"}}, arsenal, true},
		{"term in sources", &Filter{Terms: []string{"sporteventz"}}, milan, true},
		{"every term required", &Filter{Terms: []string{"milan", "premier"}}, milan, false},
		{"source match", &Filter{Sources: []string{"sporteventz"}}, milan, true},
		{"source mismatch", &Filter{Sources: []string{"SportEventz"}}, arsenal, false},
		{"kickoff inside window", &Filter{From: intPtr(18 * 60), To: intPtr(21 * 60)}, arsenal, true},
		{"kickoff window inclusive", &Filter{From: intPtr(18 * 60), To: intPtr(18 * 60)}, milan, true},
		{"kickoff before window", &Filter{From: intPtr(15 * 60)}, everton, false},
		{"kickoff after window", &Filter{To: intPtr(20 * 60)}, arsenal, false},
		{
			name:   "combined criteria",
			filter: &Filter{Channels: []string{"DAZN"}, Terms: []string{"serie"}, From: intPtr(17 * 60)},
			event:  milan,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.event); got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_MatchesFallsBackToTimeLocal(t *testing.T) {
	evt := &event.MergedEvent{TeamsDisplay: "A v B", TimeLocal: "2026-03-07 21:15"}
	f := &Filter{From: intPtr(21 * 60)}
	if !f.Matches(evt) {
		t.Error("expected kickoff to be read from timeLocal")
	}

	evt.TimeLocal = "garbage"
	if f.Matches(evt) {
		t.Error("event without a usable kickoff should not match a time window")
	}
}

func TestFilter_Apply(t *testing.T) {
	events := sampleEvents()

	if got := NewFilter().Apply(events); len(got) != len(events) {
		t.Errorf("empty filter returned %d events, want %d", len(got), len(events))
	}

	f := &Filter{Channels: []string{"DAZN"}}
	got := f.Apply(events)
	if len(got) != 2 {
		t.Fatalf("Apply() returned %d events, want 2", len(got))
	}
	if got[0].TeamsDisplay != "AC Milan v Inter" || got[1].TeamsDisplay != "Arsenal v Chelsea" {
		t.Errorf("Apply() changed order: %s, %s", got[0].TeamsDisplay, got[1].TeamsDisplay)
	}

	none := (&Filter{Terms: []string{"bundesliga"}}).Apply(events)
	if none == nil || len(none) != 0 {
		t.Errorf("Apply() = %v, want empty non-nil slice", none)
	}
}

func TestFilter_String(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   string
	}{
		{"empty", NewFilter(), "No active filters"},
		{"channels", &Filter{Channels: []string{"DAZN", "SKY SPORT"}}, "Channels: DAZN, SKY SPORT"},
		{
			name:   "everything",
			filter: &Filter{Channels: []string{"DAZN"}, Terms: []string{"milan"}, Sources: []string{"LiveOnSat"}, From: intPtr(18 * 60)},
			want:   "Channels: DAZN | Search: milan | Sources: LiveOnSat | Kickoff: 18:00-23:59",
		},
		{"open start", &Filter{To: intPtr(9*60 + 5)}, "Kickoff: 00:00-09:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.String(); got != tt.want {
				t.Errorf("Filter.String() = %q, want %q", got, tt.want)
			}
		})
	}
}
