package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/intent"
	"github.com/kailas-cloud/shopsearch/internal/domain/pricing"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
)

// --- Mocks ---

type mockProvider struct {
	catalog catalog.Catalog
	err     error
	calls   int
}

func (m *mockProvider) Load(_ context.Context) (catalog.Catalog, error) {
	m.calls++
	return m.catalog, m.err
}

func newProvider(t *testing.T, rows []row) *mockProvider {
	t.Helper()
	c, err := catalog.New(items(t, rows))
	require.NoError(t, err)
	return &mockProvider{catalog: c}
}

func loadedService(t *testing.T) *Service {
	t.Helper()
	svc := New(newProvider(t, fixture), nil, pricing.DefaultPolicy(), nil)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	return svc
}

func mustRequest(t *testing.T, query string, c filter.Constraints, dynamic bool, limit int) *request.Request {
	t.Helper()
	req, err := request.New(query, c, dynamic, limit)
	require.NoError(t, err)
	return &req
}

// --- Tests ---

func TestSearch_NotLoaded(t *testing.T) {
	svc := New(newProvider(t, fixture), nil, pricing.DefaultPolicy(), nil)

	_, err := svc.Search(context.Background(), mustRequest(t, "shoes", filter.Constraints{}, false, 0))
	assert.True(t, errors.Is(err, domain.ErrCatalogNotLoaded))
	assert.True(t, errors.Is(svc.Ready(context.Background()), domain.ErrCatalogNotLoaded))

	_, err = svc.Categories()
	assert.True(t, errors.Is(err, domain.ErrCatalogNotLoaded))
}

func TestReload_ProviderError(t *testing.T) {
	svc := New(&mockProvider{err: errors.New("disk gone")}, nil, pricing.DefaultPolicy(), nil)

	_, err := svc.Reload(context.Background())
	assert.Error(t, err)
	assert.Error(t, svc.Ready(context.Background()))
}

func TestSearch_NaturalLanguageQuery(t *testing.T) {
	svc := loadedService(t)

	set, err := svc.Search(context.Background(),
		mustRequest(t, "show me running shoes under $100 with good reviews", filter.Constraints{}, false, 0))
	require.NoError(t, err)

	assert.Equal(t, mode.Search, set.Mode)
	assert.Equal(t, intent.Intent{PriceMax: f64(100), RatingMin: f64(4), Category: str("Shoes")}, set.Intent)
	assert.Equal(t, []string{"0"}, ids(set.Items))
	assert.Equal(t, 1, set.Total)
	assert.Greater(t, set.Items[0].Score(), 0.0)
}

func TestSearch_ExplicitConstraintsMerge(t *testing.T) {
	svc := loadedService(t)
	explicit := filter.Constraints{PriceMax: f64(50), Category: str("Accessories")}

	set, err := svc.Search(context.Background(),
		mustRequest(t, "running shoes under 200", explicit, false, 0))
	require.NoError(t, err)

	assert.Equal(t, f64(50), set.Applied.PriceMax)
	assert.Equal(t, str("Accessories"), set.Applied.Category)
	assert.Equal(t, []string{"5"}, ids(set.Items))
}

func TestSearch_BrowseMode(t *testing.T) {
	svc := loadedService(t)

	set, err := svc.Search(context.Background(), mustRequest(t, "", filter.Constraints{}, false, 0))
	require.NoError(t, err)

	assert.Equal(t, mode.Browse, set.Mode)
	assert.True(t, set.Intent.IsEmpty())
	assert.Equal(t, []string{"1", "0", "4", "5", "2", "3"}, ids(set.Items))
}

func TestSearch_LimitKeepsTotal(t *testing.T) {
	svc := loadedService(t)

	set, err := svc.Search(context.Background(), mustRequest(t, " ", filter.Constraints{}, false, 2))
	require.NoError(t, err)

	assert.Len(t, set.Items, 2)
	assert.Equal(t, len(fixture), set.Total)
}

func TestSearch_DynamicPricingAffectsFilters(t *testing.T) {
	svc := loadedService(t)
	// Trail Runner: 89.99 * (1 + 0.05 + 0.04) = 98.09
	c := filter.Constraints{PriceMax: f64(95), Category: str("Shoes")}

	plain, err := svc.Search(context.Background(), mustRequest(t, "", c, false, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, ids(plain.Items))
	assert.False(t, plain.Items[0].Item().PriceAdjusted())

	adjusted, err := svc.Search(context.Background(), mustRequest(t, "", c, true, 0))
	require.NoError(t, err)
	assert.Empty(t, adjusted.Items)

	// The base catalog is unchanged by a priced search.
	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 89.99, snap.Catalog.Items()[0].Price())
}

func TestSearch_UnknownCategoryIsEmpty(t *testing.T) {
	svc := loadedService(t)

	set, err := svc.Search(context.Background(),
		mustRequest(t, "anything", filter.Constraints{Category: str("Garden")}, false, 0))
	require.NoError(t, err)
	assert.Empty(t, set.Items)
	assert.Zero(t, set.Total)
}

func TestReload_SwapsSnapshot(t *testing.T) {
	prov := newProvider(t, fixture)
	svc := New(prov, nil, pricing.DefaultPolicy(), nil)
	first, err := svc.Reload(context.Background())
	require.NoError(t, err)

	smaller, err := catalog.New(items(t, fixture[:2]))
	require.NoError(t, err)
	prov.catalog = smaller

	second, err := svc.Reload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, prov.calls)
	assert.Greater(t, second.Version, first.Version)
	assert.Equal(t, len(fixture), first.Engine.Len(), "old snapshot untouched")
	assert.Equal(t, 2, second.Engine.Len())

	cats, err := svc.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Shoes"}, cats)
}

func TestReload_ConcurrentCallsAreSerialized(t *testing.T) {
	prov := newProvider(t, fixture)
	svc := New(prov, nil, pricing.DefaultPolicy(), nil)

	const n = 16
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reload(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(n), snap.Version)
	assert.Equal(t, n, prov.calls)
}

func TestReload_EmptyCatalog(t *testing.T) {
	svc := New(newProvider(t, nil), nil, pricing.DefaultPolicy(), nil)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	set, err := svc.Search(context.Background(), mustRequest(t, "shoes", filter.Constraints{}, false, 0))
	require.NoError(t, err)
	assert.Empty(t, set.Items)
}

func TestExplain(t *testing.T) {
	svc := loadedService(t)
	ex := svc.Explain("at least 4.5 stars electronics")

	assert.Equal(t, f64(4.5), ex.Intent.RatingMin)
	assert.Len(t, ex.Hits, 2)
}
