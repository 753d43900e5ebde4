// Package similarity scores free-text queries against a fixed corpus using
// TF-IDF term weighting and cosine similarity.
package similarity

import (
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Document is one corpus entry: a stable item identifier and its searchable text.
type Document struct {
	ID   string
	Text string
}

// Score is the cosine similarity of a query to one corpus document.
type Score struct {
	ID    string
	Value float64
}

type entry struct {
	term   int
	weight float64
}

// vector is a sparse L2-normalized term-weight vector sorted by vocabulary index.
type vector []entry

// Engine holds the vocabulary, idf weights and the item-by-term matrix of a corpus.
// It is read-only after construction and safe for concurrent use.
type Engine struct {
	ids   []string
	vocab map[string]int
	idf   []float64
	rows  []vector
}

// NewFromTexts builds an engine whose document IDs are the row positions.
func NewFromTexts(texts []string) *Engine {
	docs := make([]Document, len(texts))
	for i, t := range texts {
		docs[i] = Document{ID: PositionalID(i), Text: t}
	}
	return New(docs)
}

// PositionalID renders a row position as a document identifier.
func PositionalID(pos int) string {
	return strconv.Itoa(pos)
}

// New builds an engine over docs. Row order follows docs.
// An empty corpus, or one made only of stop words, yields an engine that scores everything 0.
func New(docs []Document) *Engine {
	e := &Engine{
		ids:   make([]string, len(docs)),
		vocab: make(map[string]int),
		rows:  make([]vector, len(docs)),
	}

	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		e.ids[i] = d.ID
		counts[i] = termCounts(d.Text)
		for term := range counts[i] {
			df[term]++
		}
	}

	// Vocabulary indices are assigned in sorted term order for deterministic output.
	for _, term := range slices.Sorted(maps.Keys(df)) {
		e.vocab[term] = len(e.vocab)
	}

	n := float64(len(docs))
	e.idf = make([]float64, len(e.vocab))
	for term, idx := range e.vocab {
		e.idf[idx] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	for i, c := range counts {
		e.rows[i] = e.weigh(c)
	}
	return e
}

// Rank scores query against every document, in corpus order.
// Terms unseen at construction contribute nothing; an all-zero query vector yields all-zero scores.
func (e *Engine) Rank(query string) []Score {
	q := e.weigh(termCounts(query))
	scores := make([]Score, len(e.rows))
	for i, row := range e.rows {
		scores[i] = Score{ID: e.ids[i], Value: cosine(q, row)}
	}
	return scores
}

// Len returns the number of documents in the corpus.
func (e *Engine) Len() int { return len(e.rows) }

// VocabularySize returns the number of distinct weighted terms.
func (e *Engine) VocabularySize() int { return len(e.vocab) }

// Values returns the dense score vector aligned with corpus order.
func Values(scores []Score) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = s.Value
	}
	return out
}

// Tokenize lowercases text and returns its non-stop-word terms.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	terms := raw[:0]
	for _, t := range raw {
		if !IsStopWord(t) {
			terms = append(terms, t)
		}
	}
	return terms
}

func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, t := range Tokenize(text) {
		counts[t]++
	}
	return counts
}

// weigh turns raw term counts into an L2-normalized tf-idf vector, dropping out-of-vocabulary terms.
func (e *Engine) weigh(counts map[string]int) vector {
	var v vector
	for term, c := range counts {
		idx, ok := e.vocab[term]
		if !ok {
			continue
		}
		v = append(v, entry{term: idx, weight: float64(c) * e.idf[idx]})
	}
	if len(v) == 0 {
		return nil
	}
	slices.SortFunc(v, func(a, b entry) int { return a.term - b.term })

	var norm float64
	for _, en := range v {
		norm += en.weight * en.weight
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i].weight /= norm
	}
	return v
}

// cosine is the dot product of two unit vectors, merged in term order.
func cosine(a, b vector) float64 {
	var dot float64
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i].term < b[j].term:
			i++
		case a[i].term > b[j].term:
			j++
		default:
			dot += a[i].weight * b[j].weight
			i++
			j++
		}
	}
	// Weights are non-negative; clamp rounding drift past 1.
	return math.Min(math.Max(dot, 0), 1)
}
