package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/tvfixtures/internal/event"
)

const (
	sportEventzTableRow = "tr.jtable-data-row"
	sportEventzRow      = ".MagicTableRow"
)

var (
	sportEventzTeams = teamSelectors{
		home:    ".MagicTableRowMainHomeTeamName",
		away:    ".MagicTableRowMainAwayTeamName",
		holders: []string{".MagicTableRowMainDataHolder", ".MagicTableRowMainData"},
	}
	sportEventzChannels = []string{".MagicTableRowMoreButton", ".magictableSub h3"}

	// fixed module parameters of the magictable component, in request order
	sportEventzParams = [][2]string{
		{"se_module", "bW9kX3Nwb3J0ZXZlbnRzX2ZpbHRlcg=="},
		{"se_id", "U2NoZWR1bGU="},
		{"Itemid", "0"},
	}
)

// SportEventz parses the magictable schedule component. The same rows come
// either wrapped in a jtable <tr> or as bare .MagicTableRow divs, and the
// component is sometimes only a script template that fills in the rows in
// the browser.
type SportEventz struct {
	baseURL   string
	highlight []string
}

// NewSportEventz creates the SportEventz source.
func NewSportEventz(baseURL string, highlight []string) *SportEventz {
	return &SportEventz{baseURL: baseURL, highlight: highlight}
}

func (s *SportEventz) Name() event.Source { return event.SourceSportEventz }

// URL encodes the day as se_date=MM/DD/YYYY 00:00:00.
func (s *SportEventz) URL(day time.Time) string {
	var b strings.Builder
	b.WriteString(s.baseURL)
	b.WriteByte('?')
	params := append(append([][2]string(nil), sportEventzParams...), [2]string{"se_date", day.Format("01/02/2006") + " 00:00:00"})
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(strings.ReplaceAll(url.QueryEscape(p[1]), "+", "%20"))
	}
	return b.String()
}

func (s *SportEventz) RenderMarkers() []string { return []string{"MagicTableRow", "jtable-data-row"} }
func (s *SportEventz) RowSelector() string     { return sportEventzRow }

// Parse extracts events from the table variant, falling back to the div
// variant when the table yields nothing.
func (s *SportEventz) Parse(r io.Reader, dateISO string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	if rows := doc.Find(sportEventzTableRow); rows.Length() > 0 {
		res := &Result{Variant: "table"}
		rows.Each(func(_ int, tr *goquery.Selection) {
			row := tr.Find(sportEventzRow).First()
			if row.Length() == 0 {
				row = tr
			}
			res.add(s.parseRow(row, dateISO))
		})
		if len(res.Events) > 0 {
			return res, nil
		}
	}

	res := &Result{Variant: "div"}
	doc.Find(sportEventzRow).Each(func(_ int, row *goquery.Selection) {
		res.add(s.parseRow(row, dateISO))
	})
	return res, nil
}

func (s *SportEventz) parseRow(row *goquery.Selection, dateISO string) (*event.Event, error) {
	clock := firstClock(text(row.Find(".MagicTableRowFootline h3").First()))
	home, away := extractTeams(row, sportEventzTeams)
	competition := ""
	if h := row.Find(".MagicTableRowHeadline").First(); h.Length() > 0 {
		if t := text(h); !decorative(t) {
			competition = t
		}
	}
	return event.NewEvent(
		event.SourceSportEventz,
		dateISO,
		home, away,
		clock,
		competition,
		collectChannels(row, sportEventzChannels, s.highlight),
	)
}
