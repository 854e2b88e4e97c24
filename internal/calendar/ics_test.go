package calendar

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/pfrederiksen/tvfixtures/internal/event"
)

func vienna(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Vienna")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

var stamp = time.Date(2026, 3, 7, 17, 0, 0, 0, time.UTC)

func TestGenerateICS(t *testing.T) {
	evt := &event.MergedEvent{
		Home: "AC Milan", Away: "Inter", TeamsDisplay: "AC Milan v Inter",
		TimeLocal: "2026-03-07 18:00", TimeDisplay: "18:00",
		Competition: "Serie A",
		Channels:    []string{"DAZN", "Sky Sport Austria"},
		Sources:     []event.Source{event.SourceLiveOnSat, event.SourceSportEventz},
	}

	ics := GenerateICS([]*event.MergedEvent{evt}, "Fixtures", vienna(t), stamp)

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//tvfixtures//tvfixtures//EN",
		"X-WR-CALNAME:Fixtures",
		"BEGIN:VEVENT",
		"UID:" + evt.ID() + "@tvfixtures",
		"DTSTAMP:20260307T170000Z",
		"DTSTART:20260307T170000Z", // 18:00 CET
		"DTEND:20260307T190000Z",
		"SUMMARY:AC Milan v Inter",
		"DESCRIPTION:Serie A\\nTV: DAZN\\, Sky Sport Austria",
		"CATEGORIES:LiveOnSat,SportEventz",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	if strings.Contains(strings.ReplaceAll(ics, "\r\n", ""), "\n") {
		t.Error("ICS should use \\r\\n line endings only")
	}
}

func TestGenerateICS_SummerTime(t *testing.T) {
	evt := &event.MergedEvent{TeamsDisplay: "Rapid Wien v Sturm Graz", TimeLocal: "2026-07-12 17:00"}
	ics := GenerateICS([]*event.MergedEvent{evt}, "", vienna(t), stamp)

	if !strings.Contains(ics, "DTSTART:20260712T150000Z") {
		t.Errorf("expected CEST kickoff converted to UTC, got:\n%s", ics)
	}
	if strings.Contains(ics, "X-WR-CALNAME") {
		t.Error("calendar name should be omitted when empty")
	}
	if strings.Contains(ics, "DESCRIPTION:") || strings.Contains(ics, "CATEGORIES:") {
		t.Error("empty description and categories should be omitted")
	}
}

func TestGenerateICS_SkipsUnusableTimes(t *testing.T) {
	events := []*event.MergedEvent{
		{TeamsDisplay: "A v B", TimeLocal: "2026-03-07 14:30"},
		{TeamsDisplay: "C v D", TimeLocal: "TBA"},
		{TeamsDisplay: "E v F", TimeLocal: "2026-03-07 20:45"},
	}

	ics := GenerateICS(events, "", time.UTC, stamp)

	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("Expected 2 BEGIN:VEVENT, got %d", got)
	}
	if strings.Contains(ics, "SUMMARY:C v D") {
		t.Error("event without a kickoff should be skipped")
	}
}

func TestGenerateICS_Empty(t *testing.T) {
	ics := GenerateICS(nil, "Empty", time.UTC, stamp)

	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Errorf("empty calendar is malformed:\n%s", ics)
	}
	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("empty calendar should have no events")
	}
}

func TestGenerateICS_SpecialCharacters(t *testing.T) {
	evt := &event.MergedEvent{
		TeamsDisplay: "Brighton; Hove, Albion v Spurs",
		TimeLocal:    "2026-03-07 16:00",
		Competition:  `Cup\Final`,
	}

	ics := GenerateICS([]*event.MergedEvent{evt}, "", time.UTC, stamp)

	if !strings.Contains(ics, `SUMMARY:Brighton\; Hove\, Albion v Spurs`) {
		t.Error("Special characters should be escaped in SUMMARY")
	}
	if !strings.Contains(ics, `DESCRIPTION:Cup\\Final`) {
		t.Error("Backslashes should be escaped in DESCRIPTION")
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a,b", "a\\,b"},
		{"a;b", `a\;b`},
		{"a\nb", "a\\nb"},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		if got := escapeICS(tt.in); got != tt.want {
			t.Errorf("escapeICS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
