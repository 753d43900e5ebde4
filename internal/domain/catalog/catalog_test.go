package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, id, name, category string, price, rating float64) Item {
	t.Helper()
	it, err := NewItem(id, name, name+" description", category, price, nil, rating)
	require.NoError(t, err)
	return it
}

func TestNewItem_DerivesTextAndBasePrice(t *testing.T) {
	it, err := NewItem("1", "Trail Runner", "Lightweight running shoe", "Shoes", 89.5, nil, 4.6)
	require.NoError(t, err)

	assert.Equal(t, "Trail Runner Lightweight running shoe Shoes", it.Text())
	assert.Equal(t, 89.5, it.BasePrice())
	assert.False(t, it.PriceAdjusted())
}

func TestNewItem_ExplicitBasePrice(t *testing.T) {
	base := 100.0
	it, err := NewItem("1", "Band", "", "Fitness", 95, &base, 3.9)
	require.NoError(t, err)

	assert.Equal(t, 100.0, it.BasePrice())
	assert.True(t, it.PriceAdjusted())
}

func TestNewItem_Validation(t *testing.T) {
	neg := -1.0
	tests := []struct {
		name   string
		id     string
		item   string
		price  float64
		base   *float64
		rating float64
	}{
		{"missing id", "", "x", 1, nil, 1},
		{"missing name", "1", "", 1, nil, 1},
		{"negative price", "1", "x", -5, nil, 1},
		{"negative base price", "1", "x", 5, &neg, 1},
		{"rating too high", "1", "x", 5, nil, 5.1},
		{"rating negative", "1", "x", 5, nil, -0.1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewItem(tc.id, tc.item, "", "Shoes", tc.price, tc.base, tc.rating)
			assert.Error(t, err)
		})
	}
}

func TestItem_WithPriceKeepsOtherFields(t *testing.T) {
	it := mustItem(t, "a", "Watch", "Electronics", 200, 4.5)
	adj := it.WithPrice(210)

	assert.Equal(t, 210.0, adj.Price())
	assert.Equal(t, 200.0, adj.BasePrice())
	assert.Equal(t, it.Text(), adj.Text())
	assert.Equal(t, 200.0, it.Price(), "original must not change")
}

func TestNew_DuplicateIDs(t *testing.T) {
	a := mustItem(t, "a", "One", "Shoes", 1, 1)
	b := mustItem(t, "a", "Two", "Shoes", 1, 1)

	_, err := New([]Item{a, b})
	assert.Error(t, err)
}

func TestCatalog_CorpusTextAndCategories(t *testing.T) {
	c, err := New([]Item{
		mustItem(t, "0", "Runner", "Shoes", 80, 4.2),
		mustItem(t, "1", "Tee", "Apparel", 20, 4.0),
		mustItem(t, "2", "Sprinter", "Shoes", 120, 4.8),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"Apparel", "Shoes"}, c.Categories())
	assert.Equal(t, []string{
		"Runner Runner description Shoes",
		"Tee Tee description Apparel",
		"Sprinter Sprinter description Shoes",
	}, c.CorpusText())
}

func TestCatalog_RepriceIsACopy(t *testing.T) {
	c, err := New([]Item{mustItem(t, "0", "Runner", "Shoes", 80, 4.2)})
	require.NoError(t, err)

	doubled := c.Reprice(func(it Item) float64 { return it.BasePrice() * 2 })

	assert.Equal(t, 160.0, doubled.Items()[0].Price())
	assert.Equal(t, 80.0, c.Items()[0].Price())
}

func TestCatalog_Empty(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.CorpusText())
	assert.Empty(t, c.Categories())
}
