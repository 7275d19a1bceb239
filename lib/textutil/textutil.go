package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nonAlnumRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// NormalizeName lowercases a name and drops everything that is not a
// letter or digit.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return nonAlnumRegex.ReplaceAllString(name, "")
}

// BestMatch returns the index of the candidate most similar to `target`
// by Jaro-Winkler over normalized names, -1 when no candidate reaches
// `threshold`.
func BestMatch(target string, candidates []string, threshold float64) (int, float64) {
	target = NormalizeName(target)
	if target == "" {
		return -1, 0
	}

	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		c = NormalizeName(c)
		if c == target {
			return i, 1
		}
		similarity := matchr.JaroWinkler(target, c, false)
		if similarity > bestScore {
			best = i
			bestScore = similarity
		}
	}
	if bestScore < threshold {
		return -1, bestScore
	}
	return best, bestScore
}

// Title converts "VISA CREDIT" or "visa credit" into "Visa Credit".
// A Caser keeps state between calls so each call gets its own.
func Title(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
