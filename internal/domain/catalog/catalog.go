package catalog

import (
	"fmt"
	"slices"
	"sort"
)

// Catalog is an ordered, immutable sequence of items.
// Row order is significant: positional IDs and CorpusText follow it.
type Catalog struct {
	items []Item
}

// New validates item IDs for uniqueness and creates a Catalog.
func New(items []Item) (Catalog, error) {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID()]; dup {
			return Catalog{}, fmt.Errorf("duplicate item ID %q", it.ID())
		}
		seen[it.ID()] = struct{}{}
	}
	return Catalog{items: slices.Clone(items)}, nil
}

// Items returns a copy of the items in catalog order.
func (c Catalog) Items() []Item { return slices.Clone(c.items) }

// Len returns the number of items.
func (c Catalog) Len() int { return len(c.items) }

// Categories returns the sorted set of distinct categories.
func (c Catalog) Categories() []string {
	set := make(map[string]struct{})
	for _, it := range c.items {
		set[it.category] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for cat := range set {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// CorpusText returns the derived text of every item in catalog order.
func (c Catalog) CorpusText() []string {
	texts := make([]string, len(c.items))
	for i, it := range c.items {
		texts[i] = it.text
	}
	return texts
}

// Reprice returns a new catalog whose prices are computed by fn.
// Every other field, and the row order, is preserved.
func (c Catalog) Reprice(fn func(Item) float64) Catalog {
	items := make([]Item, len(c.items))
	for i, it := range c.items {
		items[i] = it.WithPrice(fn(it))
	}
	return Catalog{items: items}
}
