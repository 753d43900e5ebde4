package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Categories is the closed, ordered list of recognised category literals.
var Categories = []string{"shoes", "apparel", "electronics", "fitness", "accessories"}

// Rule is one (pattern, extractor) pair. Guard, when set, must hold on the
// lowercased query before the pattern is tried.
type Rule struct {
	Name    string
	Guard   func(query string) bool
	Pattern *regexp.Regexp
	// Group is the submatch index holding the number; 0 means the rule yields Fixed.
	Group int
	Fixed float64
}

// apply returns the extracted number and the matched text.
func (r Rule) apply(query string) (float64, string, bool) {
	if r.Guard != nil && !r.Guard(query) {
		return 0, "", false
	}
	m := r.Pattern.FindStringSubmatch(query)
	if m == nil {
		return 0, "", false
	}
	if r.Group == 0 {
		return r.Fixed, m[0], true
	}
	v, err := strconv.ParseFloat(m[r.Group], 64)
	if err != nil {
		return 0, "", false
	}
	return v, m[0], true
}

// PriceRules are evaluated in order; the first match sets the price ceiling.
// The fallback takes the first number in the query, even when several appear.
var PriceRules = []Rule{
	{
		Name:    "price_cue",
		Pattern: regexp.MustCompile(`(under|below|<=|<)\s*[$€£]?(\d+(?:\.\d+)?)`),
		Group:   2,
	},
	{
		Name: "price_fallback",
		Guard: func(q string) bool {
			return strings.Contains(q, "under") || strings.Contains(q, "less")
		},
		Pattern: regexp.MustCompile(`[$€£]?(\d+(?:\.\d+)?)`),
		Group:   1,
	},
}

// RatingRules are all evaluated in order; each match overwrites the previous
// one, so later rules take precedence.
var RatingRules = []Rule{
	{
		Name:    "rating_phrase",
		Pattern: regexp.MustCompile(`good reviews|highly rated|4\+ stars`),
		Fixed:   4.0,
	},
	{
		Name:    "rating_stars",
		Pattern: regexp.MustCompile(`(\d(?:\.\d+)?)\s*\+?\s*stars`),
		Group:   1,
	},
	{
		Name:    "rating_at_least",
		Pattern: regexp.MustCompile(`(>=|at least)\s*(\d(?:\.\d+)?)\s*stars?`),
		Group:   2,
	},
}
