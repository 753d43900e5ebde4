package result

import (
	"github.com/kailas-cloud/shopsearch/internal/domain/intent"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/mode"
)

// Set is the ordered outcome of one search.
type Set struct {
	Items []ScoredItem
	// Total counts matches before the limit was applied.
	Total int
	Mode  mode.Mode
	// Intent is what the parser found in the query; empty in browse mode.
	Intent intent.Intent
	// Applied holds the effective constraints after merging.
	Applied filter.Constraints
}
