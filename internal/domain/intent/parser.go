package intent

import "strings"

// Parser applies price, rating and category rules to a query.
type Parser struct {
	price      []Rule
	rating     []Rule
	categories []string
}

// NewParser creates a Parser with the built-in rule lists.
func NewParser() *Parser {
	return &Parser{price: PriceRules, rating: RatingRules, categories: Categories}
}

var defaultParser = NewParser()

// Parse extracts constraints from query with the built-in rules.
func Parse(query string) Intent {
	return defaultParser.Parse(query)
}

// Parse extracts constraints from query. It never fails: a query with no
// recognisable evidence yields an empty Intent.
func (p *Parser) Parse(query string) Intent {
	return p.Explain(query).Intent
}

// Explain extracts constraints and reports the rule that decided each one.
func (p *Parser) Explain(query string) Explanation {
	q := strings.ToLower(query)
	var ex Explanation

	for _, r := range p.price {
		if v, m, ok := r.apply(q); ok {
			ex.Intent.PriceMax = &v
			ex.Hits = append(ex.Hits, Hit{Constraint: PriceMax, Rule: r.Name, Match: m})
			break
		}
	}

	var ratingHit *Hit
	for _, r := range p.rating {
		if v, m, ok := r.apply(q); ok {
			ex.Intent.RatingMin = &v
			ratingHit = &Hit{Constraint: RatingMin, Rule: r.Name, Match: m}
		}
	}
	if ratingHit != nil {
		ex.Hits = append(ex.Hits, *ratingHit)
	}

	for _, c := range p.categories {
		if strings.Contains(q, c) {
			cat := strings.ToUpper(c[:1]) + c[1:]
			ex.Intent.Category = &cat
			ex.Hits = append(ex.Hits, Hit{Constraint: Category, Rule: "category_literal", Match: c})
			break
		}
	}
	return ex
}
