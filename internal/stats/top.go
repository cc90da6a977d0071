package stats

import (
	"sort"

	"github.com/verte-zerg/hackblitz/internal/model"
)

// TopWordsByFrequency returns the top N words by total encounters.
func TopWordsByFrequency(aggs []model.WordAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.WordAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		ti := items[i].Decrypted + items[i].Breached
		tj := items[j].Decrypted + items[j].Breached
		if ti == tj {
			return items[i].Word < items[j].Word
		}
		return ti > tj
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for _, item := range items[:n] {
		out = append(out, item.Word)
	}
	return out
}
