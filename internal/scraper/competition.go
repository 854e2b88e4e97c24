package scraper

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxCompetitionHops = 12
	maxHeadingLen      = 120
	maxKeywordLen      = 80
)

var (
	headingClass = regexp.MustCompile(`(?i)title|head|comp|league|country`)
	// curated words that appear in competition names
	competitionKeyword = regexp.MustCompile(`(?i)\b(?:league|liga|ligue|lig|cup|pokal|copa|coppa|coupe|trophy|qualifiers?|qualification|qualifying|serie [a-d]|bundesliga|eredivisie|premiership|premier|championship|division|primera|segunda|super ?lig|friendl(?:y|ies)|play-?offs?|uefa|fifa|conmebol|concacaf|nations|world cup|euro \d{4})\b`)
	headingSelector    = `[class*="title"], [class*="head"], [class*="comp"], [class*="league"], [class*="country"],` +
		`[class*="Title"], [class*="Head"], [class*="Comp"], [class*="League"], [class*="Country"]`
)

// findCompetition walks backwards from row through previous siblings, then
// up to the parent and its previous siblings, for at most maxCompetitionHops
// steps. The first element with a heading-like class, or whose text names a
// competition, wins. Other fixture rows and purely decorative text are skipped.
func findCompetition(row *goquery.Selection, rowSelector string) string {
	cur := row
	for hops := 0; hops < maxCompetitionHops; hops++ {
		prev := cur.Prev()
		if prev.Length() == 0 {
			parent := cur.Parent()
			if parent.Length() == 0 || goquery.NodeName(parent) == "body" || goquery.NodeName(parent) == "html" {
				return ""
			}
			cur = parent
			continue
		}
		cur = prev
		if rowSelector != "" && prev.Is(rowSelector) {
			continue
		}
		if name := competitionLabel(prev); name != "" {
			return name
		}
	}
	return ""
}

// competitionLabel returns the competition named by sel, or "".
func competitionLabel(sel *goquery.Selection) string {
	class, _ := sel.Attr("class")
	t := text(sel)
	if t == "" || decorative(t) {
		return ""
	}
	if headingClass.MatchString(class) && len(t) <= maxHeadingLen {
		return t
	}
	// a wrapper whose last heading-classed descendant names the competition
	if inner := sel.Find(headingSelector).Last(); inner.Length() > 0 {
		if it := text(inner); it != "" && !decorative(it) && len(it) <= maxHeadingLen {
			return it
		}
	}
	if len(t) <= maxKeywordLen && competitionKeyword.MatchString(t) {
		return t
	}
	return ""
}
