package scraper

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/tvfixtures/internal/event"
)

var (
	// a token may run straight into a unit suffix ("20:45Uhr") but not into
	// another digit
	clockToken = regexp.MustCompile(`\b(\d{1,2}:\d{2})(?:\D|$)`)
	// home and away split on the first vs / vs. / v / - / en dash / em dash
	teamSeparator = regexp.MustCompile(`(?i)^(.+?)\s+(?:vs\.?|v|-|–|—)\s+(.+)$`)
)

// daytime window used to prefer plausible kickoffs among unlabelled tokens
const (
	daytimeStart = 9 * 60
	daytimeEnd   = 23*60 + 59
)

// timeLabel is a prefix announcing a kickoff time, e.g. "ST: 20:45".
type timeLabel struct {
	name    string
	pattern *regexp.Regexp
}

func newTimeLabels(names ...string) []timeLabel {
	labels := make([]timeLabel, 0, len(names))
	for _, n := range names {
		labels = append(labels, timeLabel{
			name:    n,
			pattern: regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(n) + `\s*[:.\-]?\s*(\d{1,2}:\d{2})(?:\D|$)`),
		})
	}
	return labels
}

func (l timeLabel) find(text string) string {
	m := l.pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if _, err := event.ParseClock(m[1]); err != nil {
		return ""
	}
	return m[1]
}

// extractTime picks the kickoff token from candidate texts.
//
// The first label is authoritative: if it appears anywhere it wins. Otherwise
// candidates are scanned in order, trying the remaining labels in rank order
// on each, and the first labelled time wins. Without any label every clock
// token is collected; the earliest one inside the daytime window is chosen,
// or the latest token when none falls inside it.
func extractTime(candidates []string, labels []timeLabel) string {
	if len(labels) > 0 {
		for _, c := range candidates {
			if t := labels[0].find(c); t != "" {
				return t
			}
		}
		for _, c := range candidates {
			for _, l := range labels[1:] {
				if t := l.find(c); t != "" {
					return t
				}
			}
		}
	}

	type token struct {
		text string
		mins int
	}
	seen := make(map[int]bool)
	var tokens []token
	for _, c := range candidates {
		for _, m := range clockToken.FindAllStringSubmatch(c, -1) {
			mins, err := event.ParseClock(m[1])
			if err != nil || seen[mins] {
				continue
			}
			seen[mins] = true
			tokens = append(tokens, token{m[1], mins})
		}
	}
	if len(tokens) == 0 {
		return ""
	}
	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].mins < tokens[j].mins })
	for _, t := range tokens {
		if t.mins >= daytimeStart && t.mins <= daytimeEnd {
			return t.text
		}
	}
	return tokens[len(tokens)-1].text
}

// firstClock returns the first valid clock token in text.
func firstClock(text string) string {
	for _, m := range clockToken.FindAllStringSubmatch(text, -1) {
		if _, err := event.ParseClock(m[1]); err == nil {
			return m[1]
		}
	}
	return ""
}

// teamSelectors describes where a source keeps team names.
type teamSelectors struct {
	home, away string
	holders    []string // tried in order; the row itself is the last resort
}

// extractTeams prefers dedicated home/away elements and falls back to
// splitting a holder's text on the first fixture separator.
func extractTeams(row *goquery.Selection, sel teamSelectors) (string, string) {
	if sel.home != "" && sel.away != "" {
		h, a := row.Find(sel.home).First(), row.Find(sel.away).First()
		if h.Length() > 0 && a.Length() > 0 {
			home, away := text(h), text(a)
			if home != "" && away != "" {
				return home, away
			}
		}
	}

	holder := row
	for _, s := range sel.holders {
		if found := row.Find(s).First(); found.Length() > 0 {
			holder = found
			break
		}
	}
	return splitTeams(text(holder))
}

// splitTeams splits "Home v Away" style text.
func splitTeams(raw string) (string, string) {
	m := teamSeparator.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

// collectChannels gathers broadcaster names from every element matching one
// of the selectors, in document order per selector.
func collectChannels(row *goquery.Selection, selectors []string, highlight []string) []string {
	var raw []string
	for _, s := range selectors {
		row.Find(s).Each(func(_ int, c *goquery.Selection) {
			raw = append(raw, c.Text())
		})
	}
	return event.Channels(raw, highlight)
}

// text returns the element's text with whitespace collapsed.
func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// decorative reports whether s carries no letters or digits.
func decorative(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
