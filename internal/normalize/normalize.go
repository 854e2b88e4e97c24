// Package normalize canonicalizes team names for fuzzy matching and scores
// their similarity.
//
// Output of this package is used only for comparisons. Display strings are
// never replaced by normalized forms.
package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// Ratio scores the similarity of two normalized names on a 0..100 scale.
// Implementations are symmetric and score identical inputs 100.
type Ratio func(a, b string) int

var punctPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\-']`)

// filler tokens that separate the two sides of a fixture
var fixtureSeparators = map[string]bool{"v": true, "vs": true, "versus": true}

// Normalizer holds the stopword set used by CleanName.
type Normalizer struct {
	stopwords map[string]bool
}

// New creates a Normalizer. Stopwords are matched case-insensitively.
func New(stopwords []string) *Normalizer {
	sw := make(map[string]bool, len(stopwords))
	for _, w := range stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			sw[w] = true
		}
	}
	return &Normalizer{stopwords: sw}
}

// CleanName lowercases a team name, replaces punctuation other than hyphens
// and apostrophes with spaces, splits hyphenated and colon-joined words, and
// drops fixture separators (v, vs, versus) and stopwords.
func (n *Normalizer) CleanName(name string) string {
	s := strings.ToLower(punctPattern.ReplaceAllString(name, " "))
	s = strings.NewReplacer("-", " ", ":", " ").Replace(s)
	var toks []string
	for _, t := range strings.Fields(s) {
		if fixtureSeparators[t] || n.stopwords[t] {
			continue
		}
		toks = append(toks, t)
	}
	return strings.Join(toks, " ")
}

// tokenSet splits on whitespace and returns the sorted unique tokens.
func tokenSet(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
