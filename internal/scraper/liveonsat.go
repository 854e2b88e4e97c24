package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/tvfixtures/internal/event"
)

const liveOnSatRow = "div.blockfix"

var (
	liveOnSatLabels = newTimeLabels("ST", "KO", "Kick-off", "Start", "Time")
	liveOnSatTeams  = teamSelectors{
		home:    ".fix_text .home",
		away:    ".fix_text .away",
		holders: []string{".fix_text .fLeft", ".fix_text"},
	}
	liveOnSatTimeCandidates = []string{".fLeft_time_live", ".fix_time", ".time"}
	liveOnSatChannels       = []string{".fLeft_live a", `a[class^="chan_live"]`}
)

// LiveOnSat parses the 2day.php daily listing. Fixture rows carry the team
// pair in a free-text holder, a labelled start time ("ST: 20:45") and a table
// of channel links; competition headings precede groups of rows.
type LiveOnSat struct {
	baseURL   string
	highlight []string
}

// NewLiveOnSat creates the LiveOnSat source.
func NewLiveOnSat(baseURL string, highlight []string) *LiveOnSat {
	return &LiveOnSat{baseURL: baseURL, highlight: highlight}
}

func (s *LiveOnSat) Name() event.Source { return event.SourceLiveOnSat }

// URL requests a single-day window starting and ending on day.
func (s *LiveOnSat) URL(day time.Time) string {
	dd, mm, yyyy := fmt.Sprintf("%02d", day.Day()), fmt.Sprintf("%02d", int(day.Month())), strconv.Itoa(day.Year())
	params := url.Values{}
	params.Set("start_dd", dd)
	params.Set("start_mm", mm)
	params.Set("start_yyyy", yyyy)
	params.Set("end_dd", dd)
	params.Set("end_mm", mm)
	params.Set("end_yyyy", yyyy)
	return s.baseURL + "?" + params.Encode()
}

// Parse extracts events from a LiveOnSat document.
func (s *LiveOnSat) Parse(r io.Reader, dateISO string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	res := &Result{Variant: "blockfix"}
	doc.Find(liveOnSatRow).Each(func(_ int, row *goquery.Selection) {
		var candidates []string
		for _, sel := range liveOnSatTimeCandidates {
			row.Find(sel).Each(func(_ int, c *goquery.Selection) {
				candidates = append(candidates, text(c))
			})
		}
		candidates = append(candidates, text(row))

		clock := extractTime(candidates, liveOnSatLabels)
		home, away := extractTeams(row, liveOnSatTeams)
		res.add(event.NewEvent(
			event.SourceLiveOnSat,
			dateISO,
			home, away,
			clock,
			findCompetition(row, liveOnSatRow),
			collectChannels(row, liveOnSatChannels, s.highlight),
		))
	})
	return res, nil
}
