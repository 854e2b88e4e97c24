// Package calendar exports merged fixtures as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/tvfixtures/internal/event"
)

// matchLength is the assumed duration of a broadcast.
const matchLength = 2 * time.Hour

// GenerateICS generates an iCalendar (.ics) document with one VEVENT per
// fixture. Kickoffs are wall-clock times in loc and are emitted in UTC.
// Fixtures without a usable kickoff are left out.
func GenerateICS(events []*event.MergedEvent, name string, loc *time.Location, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//tvfixtures//tvfixtures//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if name != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(name)))
	}

	stamp := formatICSTime(now)
	for _, evt := range events {
		start, err := time.ParseInLocation(event.LocalLayout, evt.TimeLocal, loc)
		if err != nil {
			continue
		}
		writeEvent(&ics, evt, start, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, evt *event.MergedEvent, start time.Time, stamp string) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// UID is stable for identical output
	ics.WriteString(fmt.Sprintf("UID:%s@tvfixtures\r\n", evt.ID()))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(start.Add(matchLength))))
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.TeamsDisplay)))

	var desc []string
	if evt.Competition != "" {
		desc = append(desc, evt.Competition)
	}
	if len(evt.Channels) > 0 {
		desc = append(desc, "TV: "+strings.Join(evt.Channels, ", "))
	}
	if len(desc) > 0 {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(strings.Join(desc, "\n"))))
	}

	if len(evt.Sources) > 0 {
		cats := make([]string, len(evt.Sources))
		for i, s := range evt.Sources {
			cats[i] = escapeICS(string(s))
		}
		ics.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", strings.Join(cats, ",")))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// RFC 5545 TEXT escaping
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
