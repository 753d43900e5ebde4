package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	catalogrepo "github.com/kailas-cloud/shopsearch/internal/repository/catalog"
)

const testCatalog = `[
  {"name": "Trail Runner", "description": "lightweight running shoes", "category": "Shoes", "price": 89.99, "rating": 4.6},
  {"name": "Road Racer", "description": "fast running shoes for road", "category": "Shoes", "price": 129.0, "rating": 4.8},
  {"name": "Yoga Mat", "description": "non-slip yoga mat", "category": "Fitness", "price": 30, "rating": 3.8}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"shopsearch"}, args...))
	return out.String(), err
}

func TestSearchCommand_JSON(t *testing.T) {
	catalog := writeFile(t, "products.json", testCatalog)

	out, err := run(t, "", "search", "--catalog", catalog, "--output", "json", "running", "shoes", "under", "100")
	require.NoError(t, err)

	var res struct {
		Items []struct {
			Name  string  `json:"name"`
			Score float64 `json:"score"`
		} `json:"items"`
		Mode string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "search", res.Mode)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Trail Runner", res.Items[0].Name)
}

func TestSearchCommand_Text(t *testing.T) {
	catalog := writeFile(t, "products.json", testCatalog)

	out, err := run(t, "", "search", "--catalog", catalog, "--dynamic-pricing", "--category", "Fitness")
	require.NoError(t, err)
	assert.Contains(t, out, "Yoga Mat")
	assert.Contains(t, out, "28.50 (was 30.00)")
	assert.Contains(t, out, "1 of 1 (browse)")
}

func TestSearchCommand_CatalogRequired(t *testing.T) {
	_, err := run(t, "", "search", "shoes")
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "", "parse", "at", "least", "4.5", "stars", "electronics")
	require.NoError(t, err)
	assert.Contains(t, out, "price_max:  -")
	assert.Contains(t, out, "rating_min: 4.5")
	assert.Contains(t, out, "category:   Electronics")
}

func TestBatchCommand_Stdin(t *testing.T) {
	catalog := writeFile(t, "products.json", testCatalog)

	out, err := run(t, "yoga\n\nroad shoes\n", "batch", "--catalog", catalog, "--queries", "-", "--output", "json", "--workers", "2")
	require.NoError(t, err)

	var res []struct {
		Query   string `json:"query"`
		Results struct {
			Items []struct {
				Name string `json:"name"`
			} `json:"items"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 2)
	assert.Equal(t, "yoga", res[0].Query)
	assert.Equal(t, "Yoga Mat", res[0].Results.Items[0].Name)
	assert.Equal(t, "Road Racer", res[1].Results.Items[0].Name)
}

func TestBatchCommand_EmptyQueries(t *testing.T) {
	catalog := writeFile(t, "products.json", testCatalog)
	queries := writeFile(t, "queries.txt", "\n\n")

	_, err := run(t, "", "batch", "--catalog", catalog, "--queries", queries)
	assert.Error(t, err)
}

func TestPriceCommand(t *testing.T) {
	catalog := writeFile(t, "products.json", testCatalog)

	out, err := run(t, "", "price", "--catalog", catalog, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "price: 98.09")
	assert.Contains(t, out, "base_price: 89.99")

	out, err = run(t, "", "price", "--catalog", catalog, "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, `"price": 89.99`)
}

type fakePublisher struct {
	published int
	version   int64
}

func (f *fakePublisher) Publish(_ context.Context, c domcat.Catalog) (int64, error) {
	f.published = c.Len()
	f.version++
	return f.version, nil
}

func (f *fakePublisher) Key() string { return "test:catalog" }

func TestPublish(t *testing.T) {
	cat, err := catalogrepo.Decode(strings.NewReader(testCatalog), catalogrepo.FormatJSON)
	require.NoError(t, err)

	pub := &fakePublisher{}
	var out bytes.Buffer
	require.NoError(t, publish(context.Background(), &out, pub, cat, zap.NewNop()))

	assert.Equal(t, 3, pub.published)
	assert.Equal(t, "published 3 products to test:catalog (version 1)\n", out.String())
}

func TestPublishCommand_MissingCatalog(t *testing.T) {
	_, err := run(t, "", "publish", "--catalog", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
