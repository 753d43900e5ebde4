package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	dombatch "github.com/kailas-cloud/shopsearch/internal/domain/batch"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
	"github.com/kailas-cloud/shopsearch/internal/logger"
)

// MaxBatchSize is the maximum number of queries per batch request.
const MaxBatchSize = 100

// Service runs many searches concurrently against the same snapshot.
// Ranking is read-only, so queries share the engine without locking.
type Service struct {
	search       Searcher
	workers      int
	maxBatchSize int
}

// New creates a batch service. workers <= 0 uses one worker per CPU.
func New(search Searcher, workers int) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Service{search: search, workers: workers, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Search runs every request and returns results in input order with per-item errors.
func (s *Service) Search(ctx context.Context, reqs []request.Request) []dombatch.Result {
	results := make([]dombatch.Result, len(reqs))

	if len(reqs) > s.maxBatchSize {
		for i := range reqs {
			results[i] = dombatch.NewError(
				reqs[i].Query(),
				fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidRequest),
			)
		}
		return results
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		for i := range reqs {
			results[i] = dombatch.NewError(reqs[i].Query(), fmt.Errorf("create worker pool: %w", err))
		}
		return results
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range reqs {
		req := &reqs[i]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = s.searchOne(logger.WithFields(ctx, zap.Int("query_index", i)), req)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = dombatch.NewError(req.Query(), fmt.Errorf("submit: %w", submitErr))
		}
	}
	wg.Wait()

	return results
}

func (s *Service) searchOne(ctx context.Context, req *request.Request) dombatch.Result {
	if err := ctx.Err(); err != nil {
		return dombatch.NewError(req.Query(), fmt.Errorf("search: %w", err))
	}
	set, err := s.search.Search(ctx, req)
	if err != nil {
		logger.FromContext(ctx).Warn("batch query failed", zap.String("query", req.Query()), zap.Error(err))
		return dombatch.NewError(req.Query(), fmt.Errorf("search: %w", err))
	}
	return dombatch.NewOK(req.Query(), set)
}
