package taxonomy

import (
	"strings"
	"unicode"
)

// minMatchLen is the minimum canonical input length for prefix,
// substring and fuzzy matching. Shorter inputs only match exactly.
const minMatchLen = 4

// fuzzyMargin is how far the best fuzzy candidate must beat the
// runner-up. Near-ties are ambiguous and yield no match: a false
// negative lands in Uncategorised where a human can see it, a false
// positive is a silently wrong classification.
const fuzzyMargin = 2

// NormalizeDiscipline maps a free-text discipline value onto a
// canonical key. It returns false for empty, unknown or explicitly
// uncategorised inputs; it never fails on malformed data.
func NormalizeDiscipline(raw string) (Discipline, bool) {
	in := canonicalize(raw)
	if in == "" || isUncategorisedWord(in) {
		return "", false
	}

	for _, d := range disciplineOrder {
		if in == canonicalize(string(d)) || in == canonicalize(disciplineLabels[d]) {
			return d, true
		}
	}

	// Truncated inputs: "Groundworks" → "Groundworks & Substructure".
	if len([]rune(in)) >= minMatchLen {
		for _, d := range disciplineOrder {
			if strings.HasPrefix(canonicalize(disciplineLabels[d]), in) {
				return d, true
			}
		}
	}

	return "", false
}

// NormalizeMaterialClass maps a free-text material class onto one of
// the canonical classes of the given discipline. Matching runs
// exact → prefix → substring → edit distance; the fuzzy stage only
// accepts an unambiguous winner within the distance threshold.
func NormalizeMaterialClass(d Discipline, raw string) (string, bool) {
	candidates := materialClasses[d]
	if len(candidates) == 0 {
		return "", false
	}

	in := canonicalize(raw)
	if in == "" || isUncategorisedWord(in) {
		return "", false
	}

	for _, c := range candidates {
		if in == canonicalize(c) {
			return c, true
		}
	}

	runes := []rune(in)
	if len(runes) < minMatchLen {
		return "", false
	}

	for _, c := range candidates {
		if strings.HasPrefix(canonicalize(c), in) {
			return c, true
		}
	}
	for _, c := range candidates {
		if strings.Contains(canonicalize(c), in) {
			return c, true
		}
	}

	return fuzzyMatch(runes, candidates)
}

// fuzzyMatch picks the candidate with the lowest edit distance from
// the input, subject to a length-relative threshold and an ambiguity
// margin against the runner-up.
func fuzzyMatch(in []rune, candidates []string) (string, bool) {
	best, second := -1, -1
	var bestClass string
	for _, c := range candidates {
		dist := levenshtein(in, []rune(canonicalize(c)))
		switch {
		case best == -1 || dist < best:
			second = best
			best = dist
			bestClass = c
		case second == -1 || dist < second:
			second = dist
		}
	}

	threshold := len(in) / 4
	if threshold < 2 {
		threshold = 2
	}
	if best < 0 || best > threshold {
		return "", false
	}
	if second >= 0 && second-best < fuzzyMargin {
		return "", false
	}
	return bestClass, true
}

// canonicalize lowers, trims, expands "&" to "and" and collapses runs
// of non-alphanumerics to single spaces.
func canonicalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	pendingSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

func isUncategorisedWord(canonical string) bool {
	return canonical == "uncategorised" || canonical == "uncategorized"
}

// levenshtein computes the classic edit distance between two rune
// slices using the two-row dynamic programming formulation.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
