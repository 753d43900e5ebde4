package search

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/intent"
	"github.com/kailas-cloud/shopsearch/internal/domain/pricing"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	"github.com/kailas-cloud/shopsearch/internal/domain/similarity"
	"github.com/kailas-cloud/shopsearch/internal/logger"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
)

// Snapshot is a base catalog and the engine built from its text.
// Both are immutable; a reload replaces the whole snapshot.
type Snapshot struct {
	Catalog  catalog.Catalog
	Engine   *similarity.Engine
	LoadedAt time.Time
	Version  int64
}

// Service answers catalog searches against the current snapshot.
type Service struct {
	provider CatalogProvider
	parser   *intent.Parser
	pricing  pricing.Policy
	logger   *zap.Logger
	current  atomic.Pointer[Snapshot]

	// reloadMu orders reloads so the newest snapshot is always the one stored.
	reloadMu sync.Mutex
	version  int64
}

// New creates a search service. Call Reload before searching.
func New(provider CatalogProvider, parser *intent.Parser, policy pricing.Policy, logger *zap.Logger) *Service {
	if parser == nil {
		parser = intent.NewParser()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, parser: parser, pricing: policy, logger: logger}
}

// BuildSnapshot builds the similarity engine for c.
func BuildSnapshot(c catalog.Catalog) *Snapshot {
	items, texts := c.Items(), c.CorpusText()
	docs := make([]similarity.Document, len(items))
	for i, it := range items {
		docs[i] = similarity.Document{ID: it.ID(), Text: texts[i]}
	}
	return &Snapshot{Catalog: c, Engine: similarity.New(docs), LoadedAt: time.Now()}
}

// Reload reads the catalog from the provider, rebuilds the engine and swaps
// the snapshot. Searches already running keep the previous snapshot.
// Concurrent reloads run one at a time.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	c, err := s.provider.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	start := time.Now()
	snap := BuildSnapshot(c)
	elapsed := time.Since(start)
	s.version++
	snap.Version = s.version
	s.current.Store(snap)

	metrics.EngineBuildDuration.Observe(elapsed.Seconds())
	metrics.EngineVocabularySize.Set(float64(snap.Engine.VocabularySize()))
	metrics.CatalogItems.Set(float64(c.Len()))
	s.logger.Info("Catalog loaded",
		zap.Int("items", c.Len()),
		zap.Int("vocabulary", snap.Engine.VocabularySize()),
		zap.Int64("version", snap.Version),
		zap.Duration("build", elapsed),
	)
	return snap, nil
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	return snap, nil
}

// Ready reports whether a catalog has been loaded.
func (s *Service) Ready(_ context.Context) error {
	_, err := s.Snapshot()
	return err
}

// Search runs one request: a blank query browses by rating, otherwise the
// query is parsed, scored and merged with the explicit constraints.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Set, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return result.Set{}, err
	}
	log := logger.FromContext(ctx)

	if !req.Mode().IsValid() {
		return result.Set{}, fmt.Errorf("%w: unsupported mode %q", domain.ErrInvalidRequest, req.Mode())
	}
	priced := s.pricing.Adjust(snap.Catalog, req.DynamicPricing())

	set := result.Set{Mode: req.Mode()}
	switch req.Mode() {
	case mode.Browse:
		set.Applied = req.Constraints()
		set.Items = Browse(priced.Items(), set.Applied)
	case mode.Search:
		set.Intent = s.parser.Parse(req.Query())
		set.Applied = filter.Merge(req.Constraints(), set.Intent)
		set.Items = FilterAndRank(priced.Items(), snap.Engine.Rank(req.Query()), set.Applied)
		recordIntent(set.Intent)
	}

	set.Total = len(set.Items)
	if len(set.Items) > req.Limit() {
		set.Items = set.Items[:req.Limit()]
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(set.Mode)).Inc()
	metrics.SearchResults.Observe(float64(set.Total))
	if set.Total == 0 {
		metrics.SearchEmptyResultsTotal.Inc()
	}
	log.Debug("search",
		zap.String("mode", string(set.Mode)),
		zap.Int("intent_constraints", set.Intent.Count()),
		zap.Bool("constrained", !set.Applied.IsEmpty()),
		zap.Int("total", set.Total),
		zap.Bool("dynamic_pricing", req.DynamicPricing()),
		zap.Int64("catalog_version", snap.Version),
	)
	return set, nil
}

// Explain reports the constraints parsed from query and the rules behind them.
func (s *Service) Explain(query string) intent.Explanation {
	return s.parser.Explain(query)
}

// Categories lists the distinct categories of the current catalog.
func (s *Service) Categories() ([]string, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Catalog.Categories(), nil
}

func recordIntent(in intent.Intent) {
	if in.IsEmpty() {
		return
	}
	if in.PriceMax != nil {
		metrics.IntentConstraintsTotal.WithLabelValues(string(intent.PriceMax)).Inc()
	}
	if in.RatingMin != nil {
		metrics.IntentConstraintsTotal.WithLabelValues(string(intent.RatingMin)).Inc()
	}
	if in.Category != nil {
		metrics.IntentConstraintsTotal.WithLabelValues(string(intent.Category)).Inc()
	}
}
