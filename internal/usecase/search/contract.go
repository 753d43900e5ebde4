package search

import (
	"context"

	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
)

// CatalogProvider supplies the working catalog.
type CatalogProvider interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}
