package stats

import (
	"sort"

	"github.com/verte-zerg/hackblitz/internal/model"
)

// SelectWeakWords selects the words with the lowest defense rate.
// Words that were never breached are not weak.
func SelectWeakWords(aggs []model.WordAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	candidates := make([]model.WordAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Breached > 0 {
			candidates = append(candidates, agg)
		}
	}
	if len(candidates) == 0 {
		return weakSet
	}
	sort.Slice(candidates, func(i, j int) bool {
		ri := defenseRate(candidates[i])
		rj := defenseRate(candidates[j])
		if ri == rj {
			return candidates[i].Word < candidates[j].Word
		}
		return ri < rj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, c := range candidates[:top] {
		weakSet[c.Word] = struct{}{}
	}
	return weakSet
}
