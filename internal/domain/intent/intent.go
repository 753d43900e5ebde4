// Package intent extracts structured search constraints from free-text queries
// using ordered, deterministic pattern rules.
package intent

// Constraint names a single extractable field.
type Constraint string

// Extractable constraints.
const (
	PriceMax  Constraint = "price_max"
	RatingMin Constraint = "rating_min"
	Category  Constraint = "category"
)

// Intent is the set of constraints found in one query. Nil fields are absent.
type Intent struct {
	PriceMax  *float64
	RatingMin *float64
	Category  *string
}

// IsEmpty reports whether no constraint was extracted.
func (i Intent) IsEmpty() bool {
	return i.PriceMax == nil && i.RatingMin == nil && i.Category == nil
}

// Count returns the number of extracted constraints.
func (i Intent) Count() int {
	n := 0
	if i.PriceMax != nil {
		n++
	}
	if i.RatingMin != nil {
		n++
	}
	if i.Category != nil {
		n++
	}
	return n
}

// Hit records which rule produced the final value of a constraint.
type Hit struct {
	Constraint Constraint
	Rule       string
	Match      string
}

// Explanation is an Intent together with the rules that produced it.
type Explanation struct {
	Intent Intent
	Hits   []Hit
}
