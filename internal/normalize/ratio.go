package normalize

import "strings"

// TokenSetRatio compares the token sets of a and b, independent of word order
// and repetition. Tokens shared by both sides count fully; the remainders are
// compared with an indel-normalized similarity. Scores are truncated to int.
func TokenSetRatio(a, b string) int {
	if a == b {
		return 100
	}
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inB := make(map[string]bool, len(tb))
	for _, t := range tb {
		inB[t] = true
	}
	inA := make(map[string]bool, len(ta))
	for _, t := range ta {
		inA[t] = true
	}

	var sect, onlyA, onlyB []string
	for _, t := range ta {
		if inB[t] {
			sect = append(sect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tb {
		if !inA[t] {
			onlyB = append(onlyB, t)
		}
	}

	// one side is a subset of the other
	if len(sect) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sectStr := strings.Join(sect, " ")
	diffA := strings.Join(onlyA, " ")
	diffB := strings.Join(onlyB, " ")

	sectLen := runeLen(sectStr)
	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	// lengths of "sect + ' ' + diff" on either side
	sectALen := sectLen + sep + runeLen(diffA)
	sectBLen := sectLen + sep + runeLen(diffB)

	best := normalizedIndel(indelDistance(diffA, diffB), sectALen+sectBLen)
	if sectLen == 0 {
		return int(best)
	}

	// sect vs sect+diff differs only by the appended diff
	if r := normalizedIndel(sep+runeLen(diffA), sectLen+sectALen); r > best {
		best = r
	}
	if r := normalizedIndel(sep+runeLen(diffB), sectLen+sectBLen); r > best {
		best = r
	}
	return int(best)
}

// SequenceRatio sorts and deduplicates the tokens of each side and scores the
// resulting strings by 2*LCS/(len(a)+len(b)).
func SequenceRatio(a, b string) int {
	na := strings.Join(tokenSet(strings.ToLower(a)), " ")
	nb := strings.Join(tokenSet(strings.ToLower(b)), " ")
	if na == nb {
		return 100
	}
	total := runeLen(na) + runeLen(nb)
	if total == 0 {
		return 100
	}
	return int(200 * float64(lcsLength([]rune(na), []rune(nb))) / float64(total))
}

// normalizedIndel maps an indel distance to a 0..100 similarity.
func normalizedIndel(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 * (1 - float64(dist)/float64(lensum))
}

// indelDistance is the number of insertions and deletions turning a into b.
func indelDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	return len(ra) + len(rb) - 2*lcsLength(ra, rb)
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func runeLen(s string) int {
	return len([]rune(s))
}

// RatioByName returns the scorer registered under name: "token_set"
// (default) or "sequence".
func RatioByName(name string) Ratio {
	if name == "sequence" {
		return SequenceRatio
	}
	return TokenSetRatio
}
