package search

import (
	"slices"

	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	"github.com/kailas-cloud/shopsearch/internal/domain/similarity"
)

// FilterAndRank attaches scores to items by ID, drops items violating c and
// orders the rest by score, then rating, both descending. Ties keep catalog order.
// Items without a score rank as 0.
func FilterAndRank(items []catalog.Item, scores []similarity.Score, c filter.Constraints) []result.ScoredItem {
	byID := make(map[string]float64, len(scores))
	for _, s := range scores {
		byID[s.ID] = s.Value
	}

	out := make([]result.ScoredItem, 0, len(items))
	for _, it := range items {
		if c.Matches(it) {
			out = append(out, result.New(it, byID[it.ID()]))
		}
	}

	slices.SortStableFunc(out, func(a, b result.ScoredItem) int {
		if a.Score() != b.Score() {
			return descending(a.Score(), b.Score())
		}
		return descending(a.Rating(), b.Rating())
	})
	return out
}

// Browse filters items by c and orders them by rating only, keeping catalog order on ties.
func Browse(items []catalog.Item, c filter.Constraints) []result.ScoredItem {
	out := make([]result.ScoredItem, 0, len(items))
	for _, it := range items {
		if c.Matches(it) {
			out = append(out, result.New(it, 0))
		}
	}
	slices.SortStableFunc(out, func(a, b result.ScoredItem) int {
		return descending(a.Rating(), b.Rating())
	})
	return out
}

func descending(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
