package ir

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// closestRule returns the defined rule name that best matches a misspelled
// reference, or "" when nothing is close enough.
func closestRule(name string, defined []string) string {
	limit := len(name)/3 + 1

	ranks := fuzzy.RankFindFold(name, defined)
	// a reference with a stray extra letter contains the definition
	for i, d := range defined {
		if d != name && fuzzy.MatchFold(d, name) {
			dist := fuzzy.LevenshteinDistance(name, d)
			ranks = append(ranks, fuzzy.Rank{Source: name, Target: d, Distance: dist, OriginalIndex: i})
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Stable(ranks)
	if ranks[0].Distance > limit {
		return ""
	}
	return ranks[0].Target
}
