package match

import (
	"cmp"
	"slices"
)

// minSuggestScore is the lowest similarity still offered as a suggestion.
const minSuggestScore = 0.5

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit names from known that resemble name, best
// first. Ties keep the alphabetical order so output is stable.
func Suggest(name string, known []string, limit int) []string {
	var candidates []scored

	for _, k := range known {
		if k == name {
			continue
		}

		if s := Similarity(name, k); s >= minSuggestScore {
			candidates = append(candidates, scored{name: k, score: s})
		}
	}

	slices.SortFunc(candidates, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}

		return cmp.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(limit, len(candidates)))
	for i := 0; i < len(candidates) && i < limit; i++ {
		out = append(out, candidates[i].name)
	}

	return out
}
