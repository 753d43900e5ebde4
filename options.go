package shopsearch

import "go.uber.org/zap"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	catalogFile    string
	products       []Product
	hasProducts    bool
	logger         *zap.Logger
	pricing        PricingPolicy
	dynamicPricing bool
	defaultLimit   int
	priceCeiling   float64
	batchWorkers   int
	maxBatchSize   int
}

// WithCatalogFile loads the catalog from a JSON or YAML file. Reload re-reads it.
func WithCatalogFile(path string) Option {
	return func(c *clientConfig) {
		c.catalogFile = path
	}
}

// WithCatalog serves a fixed in-memory catalog.
func WithCatalog(products []Product) Option {
	return func(c *clientConfig) {
		c.products = products
		c.hasProducts = true
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithPricing sets the demand pricing policy and whether searches use it by default.
func WithPricing(policy PricingPolicy, enabledByDefault bool) Option {
	return func(c *clientConfig) {
		c.pricing = policy
		c.dynamicPricing = enabledByDefault
	}
}

// WithDefaultLimit sets the result limit used when a query has none.
func WithDefaultLimit(n int) Option {
	return func(c *clientConfig) {
		c.defaultLimit = n
	}
}

// WithBatchWorkers sets the worker pool size for SearchBatch. 0 uses one per CPU.
func WithBatchWorkers(n int) Option {
	return func(c *clientConfig) {
		c.batchWorkers = n
	}
}

// WithMaxBatchSize caps the number of queries accepted by SearchBatch.
func WithMaxBatchSize(n int) Option {
	return func(c *clientConfig) {
		c.maxBatchSize = n
	}
}

// WithPriceCeiling sets the price slider maximum. A Query.PriceMax at or above
// it means no price limit. Defaults to 300, as on the HTTP API.
func WithPriceCeiling(v float64) Option {
	return func(c *clientConfig) {
		if v > 0 {
			c.priceCeiling = v
		}
	}
}
