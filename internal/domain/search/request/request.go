package request

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1024
	DefaultLimit   = 50
	MaxLimit       = 500
)

// Request is a validated catalog search.
type Request struct {
	query          string
	searchMode     mode.Mode
	constraints    filter.Constraints
	dynamicPricing bool
	limit          int
}

// New validates and normalizes search parameters.
// A blank query selects browse mode. Limit defaults to DefaultLimit and is clamped to MaxLimit.
func New(query string, constraints filter.Constraints, dynamicPricing bool, limit int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if p := constraints.PriceMax; p != nil && (math.IsNaN(*p) || *p < 0) {
		return Request{}, fmt.Errorf("price_max must be a non-negative number")
	}
	if r := constraints.RatingMin; r != nil && (math.IsNaN(*r) || *r < 0 || *r > catalog.MaxRating) {
		return Request{}, fmt.Errorf("rating_min must be between 0 and %.0f", catalog.MaxRating)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		query:          query,
		searchMode:     mode.For(query),
		constraints:    constraints,
		dynamicPricing: dynamicPricing,
		limit:          limit,
	}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// Mode returns the ordering strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Constraints returns the explicitly requested filters.
func (r *Request) Constraints() filter.Constraints { return r.constraints }

// DynamicPricing reports whether demand-adjusted prices should be used.
func (r *Request) DynamicPricing() bool { return r.dynamicPricing }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }
