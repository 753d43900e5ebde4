package shopsearch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDemoClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(append([]Option{WithCatalog(demo)}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNew_NoCatalog(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
}

func TestNew_ConflictingSources(t *testing.T) {
	_, err := New(WithCatalog(demo), WithCatalogFile("products.json"))
	assert.Error(t, err)
}

func TestNew_InvalidProducts(t *testing.T) {
	_, err := New(WithCatalog([]Product{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}}))
	assert.Error(t, err)
}

func TestClient_Search(t *testing.T) {
	c := newDemoClient(t)

	res, err := c.Search(context.Background(), Query{Text: "running shoes under 100"})
	require.NoError(t, err)
	assert.Equal(t, "search", res.Mode)
	assert.Equal(t, []string{"Trail Runner"}, names(res.Items))
	assert.Equal(t, str("Shoes"), res.Applied.Category)
}

func TestClient_SearchBrowse(t *testing.T) {
	c := newDemoClient(t)

	res, err := c.Search(context.Background(), Query{Category: "All", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, "browse", res.Mode)
	assert.Equal(t, []string{"Road Racer", "Trail Runner"}, names(res.Items))
	assert.Equal(t, len(demo), res.Total)
}

func TestClient_DynamicPricingDefault(t *testing.T) {
	c := newDemoClient(t, WithPricing(DefaultPricingPolicy(), true))

	res, err := c.Search(context.Background(), Query{Category: "Fitness"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].PriceAdjusted())

	off := false
	res, err = c.Search(context.Background(), Query{Category: "Fitness", DynamicPricing: &off})
	require.NoError(t, err)
	assert.False(t, res.Items[0].PriceAdjusted())
}

func TestClient_PriceCeilingMeansNoLimit(t *testing.T) {
	c := newDemoClient(t)

	res, err := c.Search(context.Background(), Query{PriceMax: f64(400)})
	require.NoError(t, err)
	assert.Equal(t, len(demo), res.Total)
	assert.Nil(t, res.Applied.PriceMax)

	res, err = c.Search(context.Background(), Query{PriceMax: f64(100)})
	require.NoError(t, err)
	assert.Equal(t, f64(100), res.Applied.PriceMax)
	assert.Equal(t, []string{"Cotton Tee", "Trail Runner", "Yoga Mat"}, sortedNames(res.Items))
}

func TestClient_CustomPriceCeiling(t *testing.T) {
	c := newDemoClient(t, WithPriceCeiling(1000))

	res, err := c.Search(context.Background(), Query{PriceMax: f64(140)})
	require.NoError(t, err)
	assert.Equal(t, f64(140), res.Applied.PriceMax)
	assert.Equal(t, len(demo)-1, res.Total)
}

func TestClient_SearchInvalid(t *testing.T) {
	c := newDemoClient(t)
	_, err := c.Search(context.Background(), Query{RatingMin: f64(6)})
	assert.Error(t, err)
}

func TestClient_SearchBatch(t *testing.T) {
	c := newDemoClient(t, WithBatchWorkers(2))

	results, err := c.SearchBatch(context.Background(), []Query{
		{Text: "yoga"},
		{Text: "wireless earbuds"},
		{Text: "tee", Category: "Garden"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "yoga", results[0].Query)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "Yoga Mat", results[0].Results.Items[0].Name)
	assert.Equal(t, "Earbuds", results[1].Results.Items[0].Name)
	assert.Empty(t, results[2].Results.Items)
}

func TestClient_SearchBatchTooLarge(t *testing.T) {
	c := newDemoClient(t, WithMaxBatchSize(1))

	results, err := c.SearchBatch(context.Background(), []Query{{Text: "a"}, {Text: "b"}})
	require.NoError(t, err)
	for _, r := range results {
		assert.Error(t, r.Err)
		assert.Nil(t, r.Results)
	}
}

func TestClient_CatalogFileReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: Cotton Tee
  description: soft everyday tee
  category: Apparel
  price: 19.5
  rating: 4.1
`), 0o600))

	c, err := New(WithCatalogFile(path))
	require.NoError(t, err)

	cats, err := c.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Apparel"}, cats)

	require.NoError(t, os.WriteFile(path, []byte(`
- name: Cotton Tee
  description: soft everyday tee
  category: Apparel
  price: 19.5
  rating: 4.1
- name: Yoga Mat
  description: non-slip yoga mat
  category: Fitness
  price: 30
  rating: 3.8
`), 0o600))
	require.NoError(t, c.Reload(context.Background()))

	products, err := c.Products()
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "1", products[1].ID)
}

func TestClient_ReloadFailureKeepsCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Yoga Mat","category":"Fitness","price":30,"rating":3.8}]`), 0o600))

	c, err := New(WithCatalogFile(path))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	assert.Error(t, c.Reload(context.Background()))

	res, err := c.Search(context.Background(), Query{Text: "yoga"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestClient_Explain(t *testing.T) {
	c := newDemoClient(t)
	ex := c.Explain("cheap apparel less than 25")
	assert.Equal(t, f64(25), ex.Intent.PriceMax)
	assert.Equal(t, str("Apparel"), ex.Intent.Category)
}

func sortedNames(items []ScoredProduct) []string {
	out := names(items)
	slices.Sort(out)
	return out
}
