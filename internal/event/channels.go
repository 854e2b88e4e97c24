package event

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// multiplierPattern matches a trailing "×", "×2", " x" or " X3" left over from
// collapsed channel badges. A bare capital X is kept ("Sport X").
var multiplierPattern = regexp.MustCompile(`(?:\s*×\s*\d*|\s+x\s*\d*|\s+X\s*\d+)\s*$`)

// CleanChannel collapses whitespace (including non-breaking spaces) and strips
// a dangling multiplier glyph. It returns "" when fewer than two characters remain.
func CleanChannel(s string) string {
	s = collapseSpace(s)
	s = strings.TrimSpace(multiplierPattern.ReplaceAllString(s, ""))
	if utf8.RuneCountInString(s) < 2 {
		return ""
	}
	return s
}

// collapseSpace trims and joins on single spaces; strings.Fields also splits
// on non-breaking spaces, which the sources use between words.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func channelKey(s string) string {
	return strings.ToLower(collapseSpace(s))
}

// Channels cleans raw broadcaster names, drops duplicates (compared
// case-insensitively after whitespace normalization, first occurrence kept)
// and orders the result with HighlightFirst.
func Channels(raw []string, highlight []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		c := CleanChannel(r)
		if c == "" {
			continue
		}
		k := channelKey(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	HighlightFirst(out, highlight)
	return out
}

// HighlightFirst sorts channels in place: names containing any highlighted
// broadcaster come first, and each partition is ordered case-insensitively.
func HighlightFirst(channels []string, highlight []string) {
	upper := make([]string, len(highlight))
	for i, h := range highlight {
		upper[i] = strings.ToUpper(h)
	}
	isHighlight := func(c string) bool {
		u := strings.ToUpper(c)
		for _, h := range upper {
			if h != "" && strings.Contains(u, h) {
				return true
			}
		}
		return false
	}
	sort.SliceStable(channels, func(i, j int) bool {
		hi, hj := isHighlight(channels[i]), isHighlight(channels[j])
		if hi != hj {
			return hi
		}
		return strings.ToLower(channels[i]) < strings.ToLower(channels[j])
	})
}

// UnionChannels concatenates channel lists, keeping the first occurrence of
// each name, then applies HighlightFirst.
func UnionChannels(highlight []string, lists ...[]string) []string {
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}
	return Channels(all, highlight)
}
