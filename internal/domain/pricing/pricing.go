// Package pricing derives a demand-adjusted price view from a base catalog.
package pricing

import (
	"math"
	"slices"

	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
)

// Policy parameterises the demand adjustment.
type Policy struct {
	// DemandCategories get DemandBoost added to the multiplier.
	DemandCategories []string
	DemandBoost      float64
	// Every full point of rating above RatingPivot adds RatingStep.
	RatingPivot float64
	RatingStep  float64
	// Items rated below ClearanceBelow are sold at ClearanceMultiplier regardless of demand.
	ClearanceBelow      float64
	ClearanceMultiplier float64
}

// DefaultPolicy returns the demo demand policy.
func DefaultPolicy() Policy {
	return Policy{
		DemandCategories:    []string{"Shoes", "Electronics"},
		DemandBoost:         0.05,
		RatingPivot:         4.2,
		RatingStep:          0.10,
		ClearanceBelow:      4.0,
		ClearanceMultiplier: 0.95,
	}
}

// Multiplier returns the price factor for one item.
func (p Policy) Multiplier(it catalog.Item) float64 {
	if it.Rating() < p.ClearanceBelow {
		return p.ClearanceMultiplier
	}
	m := 1.0
	if slices.Contains(p.DemandCategories, it.Category()) {
		m += p.DemandBoost
	}
	m += math.Max(it.Rating()-p.RatingPivot, 0) * p.RatingStep
	return m
}

// Adjust returns a new catalog priced from each item's base price.
// Disabled resets every price to its base price. base is never modified and
// row order is preserved, so an engine built from base stays aligned.
func (p Policy) Adjust(base catalog.Catalog, enabled bool) catalog.Catalog {
	if !enabled {
		return base.Reprice(catalog.Item.BasePrice)
	}
	return base.Reprice(func(it catalog.Item) float64 {
		return roundCents(it.BasePrice() * p.Multiplier(it))
	})
}

// Adjust applies DefaultPolicy.
func Adjust(base catalog.Catalog, enabled bool) catalog.Catalog {
	return DefaultPolicy().Adjust(base, enabled)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
