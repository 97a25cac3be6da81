package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and removes all whitespace,
// "Trans-Dark Blue " becomes "trans-darkblue".
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// MatchName reports whether a normalized matcher is contained in the normalized name.
func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, NormalizeName(m)) {
			return true
		}
	}
	return false
}

// Similarity is the Jaro-Winkler similarity of two normalized names, 1 is identical.
func Similarity(left, right string) float64 {
	return matchr.JaroWinkler(NormalizeName(left), NormalizeName(right), false)
}

// MatchNameFuzzy reports whether any target is either contained in the name or
// at least `threshold` similar to it.
func MatchNameFuzzy(name string, targets []string, threshold float64) bool {
	if MatchName(name, targets) {
		return true
	}
	for _, target := range targets {
		if Similarity(name, target) >= threshold {
			return true
		}
	}
	return false
}
