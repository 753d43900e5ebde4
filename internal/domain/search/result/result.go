package result

import "github.com/kailas-cloud/shopsearch/internal/domain/catalog"

// ScoredItem is a catalog item paired with its query similarity.
// It lives only for the duration of one ranking pass.
type ScoredItem struct {
	item  catalog.Item
	score float64
}

// New creates a scored item.
func New(item catalog.Item, score float64) ScoredItem {
	return ScoredItem{item: item, score: score}
}

// Item returns the underlying catalog item.
func (s ScoredItem) Item() catalog.Item { return s.item }

// ID returns the item identifier.
func (s ScoredItem) ID() string { return s.item.ID() }

// Score returns the cosine similarity in [0,1].
func (s ScoredItem) Score() float64 { return s.score }

// Rating returns the item rating, the secondary sort key.
func (s ScoredItem) Rating() float64 { return s.item.Rating() }
