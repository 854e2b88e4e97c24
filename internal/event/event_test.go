package event

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewEvent(t *testing.T) {
	tests := []struct {
		name      string
		home      string
		away      string
		timeStr   string
		wantErr   error
		wantLocal string
	}{
		{"valid", "AC Milan", "Inter", "20:45", nil, "2026-10-18 20:45"},
		{"single digit hour", "Rapid Wien", "Sturm Graz", "9:30", nil, "2026-10-18 09:30"},
		{"trims names", "  Ajax ", " PSV  ", "18:00", nil, "2026-10-18 18:00"},
		{"missing home", "", "Inter", "20:45", ErrMissingTeams, ""},
		{"blank away", "Milan", "   ", "20:45", ErrMissingTeams, ""},
		{"no time", "Milan", "Inter", "", ErrInvalidTime, ""},
		{"out of range", "Milan", "Inter", "25:10", ErrInvalidTime, ""},
		{"garbage time", "Milan", "Inter", "TBA", ErrInvalidTime, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := NewEvent(SourceLiveOnSat, "2026-10-18", tt.home, tt.away, tt.timeStr, "Serie A", nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewEvent() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEvent() unexpected error: %v", err)
			}
			if evt.TimeLocal != tt.wantLocal {
				t.Errorf("TimeLocal = %q, want %q", evt.TimeLocal, tt.wantLocal)
			}
			if evt.TimeDisplay != tt.timeStr || evt.TimeStr != tt.timeStr {
				t.Errorf("display token changed: %q / %q, want %q", evt.TimeDisplay, evt.TimeStr, tt.timeStr)
			}
			if evt.TeamsDisplay != evt.Home+" v "+evt.Away {
				t.Errorf("TeamsDisplay = %q", evt.TeamsDisplay)
			}
			if evt.Channels == nil {
				t.Error("Channels should be an empty slice, not nil")
			}
		})
	}
}

func TestEvent_DateAndClock(t *testing.T) {
	evt := &Event{TimeLocal: "2026-10-18 09:30", TimeDisplay: "9:30"}
	if evt.Date() != "2026-10-18" {
		t.Errorf("Date() = %q", evt.Date())
	}
	if evt.Clock() != "9:30" {
		t.Errorf("Clock() = %q", evt.Clock())
	}

	evt = &Event{TimeLocal: "2026-10-18 21:00"}
	if evt.Clock() != "21:00" {
		t.Errorf("Clock() fallback = %q", evt.Clock())
	}
	if (&Event{}).Date() != "" {
		t.Error("Date() of empty event should be empty")
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID("2026-10-18 20:45", "AC Milan v Inter")
	b := GenerateID("2026-10-18 20:45", "ac milan v inter")
	c := GenerateID("2026-10-18 21:00", "AC Milan v Inter")

	if a != b {
		t.Error("GenerateID should ignore case of teams")
	}
	if a == c {
		t.Error("GenerateID should depend on kickoff")
	}
	if len(a) != 40 {
		t.Errorf("GenerateID length = %d, want 40", len(a))
	}
}

func TestChannels(t *testing.T) {
	highlight := []string{"DAZN", "SKY SPORT"}

	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{
			name: "highlight first then alphabetical",
			raw:  []string{"Eurosport", "DAZN", "beIN"},
			want: []string{"DAZN", "beIN", "Eurosport"},
		},
		{
			name: "dedupe is case and whitespace insensitive",
			raw:  []string{"Sky Sport  1", "sky sport 1", "SKY SPORT 1 "},
			want: []string{"Sky Sport 1"},
		},
		{
			name: "strips multiplier glyphs",
			raw:  []string{"DAZN 1 ×", "Eurosport 2 ×2", "Arena Sport x"},
			want: []string{"DAZN 1", "Arena Sport", "Eurosport 2"},
		},
		{
			name: "drops short entries",
			raw:  []string{"x", "", " ", "A", "TV"},
			want: []string{"TV"},
		},
		{
			name: "non-breaking spaces collapse",
			raw:  []string{"Sport\u00a0Digital", "  Sport \u00a0 Digital "},
			want: []string{"Sport Digital"},
		},
		{
			name: "highlight partition sorted too",
			raw:  []string{"Sky Sport Top Event", "DAZN 2", "DAZN 1", "Arena"},
			want: []string{"DAZN 1", "DAZN 2", "Sky Sport Top Event", "Arena"},
		},
		{
			name: "empty input",
			raw:  nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Channels(tt.raw, highlight)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Channels(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestUnionChannels(t *testing.T) {
	got := UnionChannels([]string{"DAZN"}, []string{"Sky Sport 1", "ORF 1"}, []string{"orf 1", "DAZN"})
	want := []string{"DAZN", "ORF 1", "Sky Sport 1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UnionChannels() = %q, want %q", got, want)
	}
}

func TestSnapshots(t *testing.T) {
	ok := NewSnapshot("2026-10-18", "2026-10-18 10:00:00", "Europe/Vienna (GMT+2)", 3, 2, nil)
	if ok.Failed() {
		t.Error("success snapshot reports failure")
	}
	if ok.Counters == nil || ok.Counters.SourceACount != 3 || ok.Counters.SourceBCount != 2 || ok.Counters.Total != 0 {
		t.Errorf("Counters = %+v", ok.Counters)
	}
	if ok.Events == nil {
		t.Error("Events should be an empty slice")
	}

	bad := NewErrorSnapshot("2026-10-18", "2026-10-18 10:00:00", "boom")
	if !bad.Failed() || bad.Error != "boom" {
		t.Errorf("error snapshot = %+v", bad)
	}
	if bad.Events == nil || len(bad.Events) != 0 {
		t.Error("error snapshot must carry an empty event list")
	}
}
