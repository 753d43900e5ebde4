package shopsearch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/intent"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
	catalogrepo "github.com/kailas-cloud/shopsearch/internal/repository/catalog"
	batchuc "github.com/kailas-cloud/shopsearch/internal/usecase/batch"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// Client is the shopsearch entry point for embedding in other programs.
type Client struct {
	searchSvc *searchuc.Service
	batchSvc  *batchuc.Service
	cfg       *clientConfig
}

// New creates a Client and loads its catalog.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		pricing:      DefaultPricingPolicy(),
		priceCeiling: filter.DefaultPriceCeiling,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	provider, err := createProvider(cfg)
	if err != nil {
		return nil, err
	}

	return wireClient(context.Background(), provider, cfg)
}

func createProvider(cfg *clientConfig) (searchuc.CatalogProvider, error) {
	switch {
	case cfg.catalogFile != "" && cfg.hasProducts:
		return nil, errors.New("shopsearch: WithCatalogFile and WithCatalog are mutually exclusive")
	case cfg.catalogFile != "":
		format, err := catalogrepo.FormatFromPath(cfg.catalogFile)
		if err != nil {
			return nil, fmt.Errorf("shopsearch: %w", err)
		}
		repo, err := catalogrepo.New(cfg.catalogFile, format)
		if err != nil {
			return nil, fmt.Errorf("shopsearch: %w", err)
		}
		return repo, nil
	case cfg.hasProducts:
		items, err := toItems(cfg.products)
		if err != nil {
			return nil, fmt.Errorf("shopsearch: %w", err)
		}
		c, err := catalog.New(items)
		if err != nil {
			return nil, fmt.Errorf("shopsearch: %w", err)
		}
		return catalogrepo.NewStatic(c), nil
	default:
		return nil, errors.New("shopsearch: catalog required (use WithCatalogFile or WithCatalog)")
	}
}

func wireClient(ctx context.Context, provider searchuc.CatalogProvider, cfg *clientConfig) (*Client, error) {
	searchSvc := searchuc.New(provider, intent.NewParser(), cfg.pricing.toDomain(), cfg.logger)
	if _, err := searchSvc.Reload(ctx); err != nil {
		return nil, fmt.Errorf("shopsearch: %w", err)
	}

	batchSvc := batchuc.New(searchSvc, cfg.batchWorkers)
	if cfg.maxBatchSize > 0 {
		batchSvc = batchSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}

	return &Client{searchSvc: searchSvc, batchSvc: batchSvc, cfg: cfg}, nil
}

// Search runs one query against the current catalog.
func (c *Client) Search(ctx context.Context, q Query) (*Results, error) {
	req, err := c.request(q)
	if err != nil {
		return nil, err
	}
	set, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromResultSet(set), nil
}

// SearchBatch runs queries concurrently. Results keep input order; a failed
// query reports its error in its own BatchResult.
func (c *Client) SearchBatch(ctx context.Context, queries []Query) ([]BatchResult, error) {
	reqs := make([]request.Request, len(queries))
	for i, q := range queries {
		req, err := c.request(q)
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", i, err)
		}
		reqs[i] = req
	}

	results := c.batchSvc.Search(ctx, reqs)
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{Query: r.Query(), Err: r.Err()}
		if r.Err() == nil {
			out[i].Results = fromResultSet(r.Set())
		}
	}
	return out, nil
}

// Explain parses query and reports which rule decided each intent field.
func (c *Client) Explain(query string) Explanation {
	return fromExplanation(c.searchSvc.Explain(query))
}

// Categories lists the distinct categories of the loaded catalog.
func (c *Client) Categories() ([]string, error) {
	cats, err := c.searchSvc.Categories()
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return cats, nil
}

// Reload re-reads the catalog and rebuilds the engine. On failure the
// previous catalog stays in service.
func (c *Client) Reload(ctx context.Context) error {
	if _, err := c.searchSvc.Reload(ctx); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

// Products returns the loaded catalog at base prices.
func (c *Client) Products() ([]Product, error) {
	snap, err := c.searchSvc.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	items := snap.Catalog.Items()
	out := make([]Product, len(items))
	for i, it := range items {
		out[i] = fromItem(it)
	}
	return out, nil
}

func (c *Client) request(q Query) (request.Request, error) {
	constraints := filter.FromOptional(q.PriceMax, q.RatingMin, q.Category, c.cfg.priceCeiling)

	dynamic := c.cfg.dynamicPricing
	if q.DynamicPricing != nil {
		dynamic = *q.DynamicPricing
	}
	limit := q.Limit
	if limit == 0 {
		limit = c.cfg.defaultLimit
	}

	req, err := request.New(q.Text, constraints, dynamic, limit)
	if err != nil {
		return request.Request{}, fmt.Errorf("invalid query: %w", err)
	}
	return req, nil
}
