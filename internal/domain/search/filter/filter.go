// Package filter holds the structured constraints applied to ranked catalog items.
package filter

import (
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/intent"
)

// AllCategories is the sidebar selector value meaning "no category constraint".
const AllCategories = "All"

// DefaultPriceCeiling is the sidebar price slider maximum; selecting it means "no limit".
const DefaultPriceCeiling = 300.0

// Constraints is a set of optional filters. Nil fields impose no restriction.
// Values are applied literally: a negative PriceMax excludes everything.
type Constraints struct {
	PriceMax  *float64
	RatingMin *float64
	Category  *string
}

// Matches reports whether item satisfies every present constraint.
// Category comparison is exact and case-sensitive.
func (c Constraints) Matches(item catalog.Item) bool {
	if c.PriceMax != nil && item.Price() > *c.PriceMax {
		return false
	}
	if c.RatingMin != nil && item.Rating() < *c.RatingMin {
		return false
	}
	if c.Category != nil && item.Category() != *c.Category {
		return false
	}
	return true
}

// IsEmpty reports whether no constraint is set.
func (c Constraints) IsEmpty() bool {
	return c.PriceMax == nil && c.RatingMin == nil && c.Category == nil
}

// Sidebar is the raw state of the browsing controls.
type Sidebar struct {
	PriceMax  float64
	RatingMin float64
	Category  string
}

// FromSidebar converts control values into constraints. A price ceiling at or
// above priceCeiling, a rating floor of 0 or less, and an empty or "All"
// category all mean no restriction.
func FromSidebar(s Sidebar, priceCeiling float64) Constraints {
	var c Constraints
	if s.PriceMax < priceCeiling {
		p := s.PriceMax
		c.PriceMax = &p
	}
	if s.RatingMin > 0 {
		r := s.RatingMin
		c.RatingMin = &r
	}
	if cat := strings.TrimSpace(s.Category); cat != "" && cat != AllCategories {
		c.Category = &cat
	}
	return c
}

// FromOptional applies FromSidebar to optional control values. An absent
// price or rating is the same as leaving its control untouched.
func FromOptional(priceMax, ratingMin *float64, category string, priceCeiling float64) Constraints {
	s := Sidebar{PriceMax: priceCeiling, Category: category}
	if priceMax != nil {
		s.PriceMax = *priceMax
	}
	if ratingMin != nil {
		s.RatingMin = *ratingMin
	}
	return FromSidebar(s, priceCeiling)
}

// Merge combines explicit constraints with those parsed from a query.
// The tighter bound wins (lower price ceiling, higher rating floor); the parsed
// category is used only when no explicit category was chosen.
func Merge(explicit Constraints, parsed intent.Intent) Constraints {
	out := explicit
	out.PriceMax = tighter(explicit.PriceMax, parsed.PriceMax, func(a, b float64) bool { return a < b })
	out.RatingMin = tighter(explicit.RatingMin, parsed.RatingMin, func(a, b float64) bool { return a > b })
	if out.Category == nil && parsed.Category != nil {
		cat := *parsed.Category
		out.Category = &cat
	}
	return out
}

func tighter(a, b *float64, better func(a, b float64) bool) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case better(*b, *a):
		return b
	default:
		return a
	}
}
