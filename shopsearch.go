// Package shopsearch ranks a small in-memory product catalog against free-text
// queries, combining TF-IDF similarity with price, rating and category
// constraints parsed from the query.
//
// The package-level functions are the building blocks; Client wires them into
// a reloadable search service.
package shopsearch

import (
	"fmt"

	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/intent"
	"github.com/kailas-cloud/shopsearch/internal/domain/similarity"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// Engine scores query text against a fixed corpus. Safe for concurrent use.
type Engine struct {
	inner *similarity.Engine
}

// Len returns the number of documents in the corpus.
func (e *Engine) Len() int { return e.inner.Len() }

// LoadCorpusText derives the searchable text of every product, in order.
func LoadCorpusText(products []Product) []string {
	texts := make([]string, len(products))
	for i, p := range products {
		texts[i] = catalog.DeriveText(p.Name, p.Description, p.Category)
	}
	return texts
}

// BuildEngine builds a similarity engine over texts. An empty corpus is allowed.
func BuildEngine(texts []string) *Engine {
	return &Engine{inner: similarity.NewFromTexts(texts)}
}

// Rank returns the cosine similarity of query to every corpus text, in corpus order.
func Rank(e *Engine, query string) []float64 {
	return similarity.Values(e.inner.Rank(query))
}

// ParseIntent extracts price, rating and category constraints from query.
func ParseIntent(query string) Intent {
	return fromIntent(intent.Parse(query))
}

// ExplainIntent parses query and reports which rule decided each field.
func ExplainIntent(query string) Explanation {
	return fromExplanation(intent.NewParser().Explain(query))
}

// FilterAndRank keeps the products matching c and orders them by score, then
// rating. scores[i] belongs to products[i] whatever the product IDs are; missing
// scores count as 0. Returned products are the caller's, with empty IDs filled
// by row position.
func FilterAndRank(products []Product, scores []float64, c Constraints) ([]ScoredProduct, error) {
	r, err := newRows(products)
	if err != nil {
		return nil, fmt.Errorf("shopsearch: %w", err)
	}
	keyed := make([]similarity.Score, 0, len(scores))
	for i, v := range scores {
		if i >= len(r.items) {
			break
		}
		keyed = append(keyed, similarity.Score{ID: r.items[i].ID(), Value: v})
	}

	ranked := searchuc.FilterAndRank(r.items, keyed, c.toDomain())
	out := make([]ScoredProduct, len(ranked))
	for i, si := range ranked {
		out[i] = ScoredProduct{Product: r.product(si.Item()), Score: si.Score()}
	}
	return out, nil
}

// AdjustPrices returns a copy of products priced by the default demand policy
// when enabled, or reset to their base prices when not.
func AdjustPrices(products []Product, enabled bool) ([]Product, error) {
	return DefaultPricingPolicy().Adjust(products, enabled)
}

// Adjust applies p to products. See AdjustPrices.
func (p PricingPolicy) Adjust(products []Product, enabled bool) ([]Product, error) {
	r, err := newRows(products)
	if err != nil {
		return nil, fmt.Errorf("shopsearch: %w", err)
	}
	c, err := catalog.New(r.items)
	if err != nil {
		return nil, fmt.Errorf("shopsearch: %w", err)
	}
	priced := p.toDomain().Adjust(c, enabled).Items()
	out := make([]Product, len(priced))
	for i, it := range priced {
		out[i] = r.product(it)
	}
	return out, nil
}

func fromExplanation(ex intent.Explanation) Explanation {
	rules := make([]RuleHit, len(ex.Hits))
	for i, h := range ex.Hits {
		rules[i] = RuleHit{Constraint: string(h.Constraint), Rule: h.Rule, Match: h.Match}
	}
	return Explanation{Intent: fromIntent(ex.Intent), Rules: rules}
}
