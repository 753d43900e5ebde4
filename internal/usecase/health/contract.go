package health

import "context"

// CatalogChecker reports whether a searchable catalog snapshot is loaded.
type CatalogChecker interface {
	Ready(ctx context.Context) error
}

// SourcePinger checks that the catalog source can be read again.
type SourcePinger interface {
	Ping(ctx context.Context) error
}
