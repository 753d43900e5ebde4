package batch

import (
	"context"

	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
)

// Searcher runs a single catalog search.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Set, error)
}
