package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Choice is a candidate filter value with the byte offsets that matched
type Choice struct {
	Value          string
	MatchedIndexes []int
}

// NarrowChoices keeps the choices matching query, best first.
// An empty query returns every choice in its original order.
func NarrowChoices(query string, choices []string) []Choice {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Choice, len(choices))
		for i, c := range choices {
			out[i] = Choice{Value: c}
		}
		return out
	}

	matches := fuzzy.Find(query, choices)
	out := make([]Choice, len(matches))
	for i, m := range matches {
		out[i] = Choice{Value: m.Str, MatchedIndexes: m.MatchedIndexes}
	}
	return out
}
