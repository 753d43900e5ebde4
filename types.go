package shopsearch

import (
	"fmt"

	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/intent"
	"github.com/kailas-cloud/shopsearch/internal/domain/pricing"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	"github.com/kailas-cloud/shopsearch/internal/domain/similarity"
)

// Product is one catalog record.
// An empty ID is replaced by the row position; a nil BasePrice defaults to Price.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	BasePrice   *float64 `json:"base_price,omitempty"`
	Rating      float64  `json:"rating"`
}

// Base returns the pre-adjustment price.
func (p Product) Base() float64 {
	if p.BasePrice == nil {
		return p.Price
	}
	return *p.BasePrice
}

// PriceAdjusted reports whether Price differs from the base price.
func (p Product) PriceAdjusted() bool { return p.Price != p.Base() }

// ScoredProduct is a product with its similarity to the query.
type ScoredProduct struct {
	Product
	Score float64 `json:"score"`
}

// Constraints are optional structured filters. Nil fields impose no restriction.
type Constraints struct {
	PriceMax  *float64 `json:"price_max"`
	RatingMin *float64 `json:"rating_min"`
	Category  *string  `json:"category"`
}

// Intent is the set of constraints parsed from query text.
type Intent struct {
	PriceMax  *float64 `json:"price_max"`
	RatingMin *float64 `json:"rating_min"`
	Category  *string  `json:"category"`
}

// RuleHit names the rule that decided one intent field.
type RuleHit struct {
	Constraint string `json:"constraint"`
	Rule       string `json:"rule"`
	Match      string `json:"match"`
}

// Explanation is a parsed intent together with the rules behind it.
type Explanation struct {
	Intent Intent    `json:"intent"`
	Rules  []RuleHit `json:"rules"`
}

// Query is one catalog search.
type Query struct {
	// Text is the free-text query; blank text browses by rating.
	Text string
	// Category restricts results; "" and "All" mean any category.
	Category string
	// PriceMax caps the price. Values at or above the price ceiling (300 unless
	// configured) mean no limit, matching the HTTP API.
	PriceMax *float64
	// RatingMin is the rating floor; 0 means no limit.
	RatingMin *float64
	// DynamicPricing overrides the client default when set.
	DynamicPricing *bool
	// Limit caps returned items; 0 uses the default.
	Limit int
}

// Results is the outcome of one search.
type Results struct {
	Items []ScoredProduct `json:"items"`
	// Total counts matches before the limit was applied.
	Total   int         `json:"total"`
	Mode    string      `json:"mode"`
	Intent  Intent      `json:"intent"`
	Applied Constraints `json:"applied"`
}

// BatchResult is the outcome of one query in a batch.
type BatchResult struct {
	Query   string
	Results *Results
	Err     error
}

// PricingPolicy configures demand-adjusted prices.
type PricingPolicy struct {
	DemandCategories    []string
	DemandBoost         float64
	RatingPivot         float64
	RatingStep          float64
	ClearanceBelow      float64
	ClearanceMultiplier float64
}

// DefaultPricingPolicy returns the standard demand pricing rules.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy(pricing.DefaultPolicy())
}

func (p PricingPolicy) toDomain() pricing.Policy { return pricing.Policy(p) }

func toItems(products []Product) ([]catalog.Item, error) {
	items := make([]catalog.Item, len(products))
	for i, p := range products {
		id := p.ID
		if id == "" {
			id = similarity.PositionalID(i)
		}
		it, err := toItem(id, p)
		if err != nil {
			return nil, err
		}
		items[i] = it
	}
	return items, nil
}

func toItem(id string, p Product) (catalog.Item, error) {
	var base *float64
	if p.BasePrice != nil {
		b := *p.BasePrice
		base = &b
	}
	return catalog.NewItem(id, p.Name, p.Description, p.Category, p.Price, base, p.Rating)
}

// rows maps stateless-call items back to the caller's products. Items are
// keyed by row position, so caller IDs may repeat or look like positions.
type rows struct {
	products []Product
	items    []catalog.Item
	index    map[string]int
}

func newRows(products []Product) (rows, error) {
	r := rows{
		products: products,
		items:    make([]catalog.Item, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for i, p := range products {
		key := similarity.PositionalID(i)
		it, err := toItem(key, p)
		if err != nil {
			return rows{}, fmt.Errorf("product %d: %w", i, err)
		}
		r.items[i] = it
		r.index[key] = i
	}
	return r, nil
}

// product returns the caller's product for it, carrying its current prices.
func (r rows) product(it catalog.Item) Product {
	i := r.index[it.ID()]
	p := r.products[i]
	if p.ID == "" {
		p.ID = similarity.PositionalID(i)
	}
	p.Price = it.Price()
	base := it.BasePrice()
	p.BasePrice = &base
	return p
}

func fromItem(it catalog.Item) Product {
	base := it.BasePrice()
	return Product{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Category:    it.Category(),
		Price:       it.Price(),
		BasePrice:   &base,
		Rating:      it.Rating(),
	}
}

func fromScored(items []result.ScoredItem) []ScoredProduct {
	out := make([]ScoredProduct, len(items))
	for i, si := range items {
		out[i] = ScoredProduct{Product: fromItem(si.Item()), Score: si.Score()}
	}
	return out
}

func fromIntent(in intent.Intent) Intent {
	return Intent{PriceMax: in.PriceMax, RatingMin: in.RatingMin, Category: in.Category}
}

func fromConstraints(c filter.Constraints) Constraints {
	return Constraints{PriceMax: c.PriceMax, RatingMin: c.RatingMin, Category: c.Category}
}

func (c Constraints) toDomain() filter.Constraints {
	return filter.Constraints{PriceMax: c.PriceMax, RatingMin: c.RatingMin, Category: c.Category}
}

func fromResultSet(set result.Set) *Results {
	return &Results{
		Items:   fromScored(set.Items),
		Total:   set.Total,
		Mode:    string(set.Mode),
		Intent:  fromIntent(set.Intent),
		Applied: fromConstraints(set.Applied),
	}
}
