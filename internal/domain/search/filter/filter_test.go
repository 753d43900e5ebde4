package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/intent"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string    { return &v }

func item(t *testing.T, category string, price, rating float64) catalog.Item {
	t.Helper()
	it, err := catalog.NewItem("1", "Thing", "", category, price, nil, rating)
	require.NoError(t, err)
	return it
}

func TestConstraints_Matches(t *testing.T) {
	shoe := item(t, "Shoes", 100, 4.2)

	tests := []struct {
		name string
		c    Constraints
		want bool
	}{
		{"empty passes", Constraints{}, true},
		{"price equal to ceiling", Constraints{PriceMax: f64(100)}, true},
		{"price above ceiling", Constraints{PriceMax: f64(99.99)}, false},
		{"negative ceiling", Constraints{PriceMax: f64(-1)}, false},
		{"rating equal to floor", Constraints{RatingMin: f64(4.2)}, true},
		{"rating below floor", Constraints{RatingMin: f64(4.3)}, false},
		{"rating floor above scale", Constraints{RatingMin: f64(6)}, false},
		{"category exact", Constraints{Category: str("Shoes")}, true},
		{"category case-sensitive", Constraints{Category: str("shoes")}, false},
		{"unknown category", Constraints{Category: str("Garden")}, false},
		{"all satisfied", Constraints{PriceMax: f64(150), RatingMin: f64(4), Category: str("Shoes")}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.c.Matches(shoe))
		})
	}
}

func TestFromSidebar(t *testing.T) {
	c := FromSidebar(Sidebar{PriceMax: 300, RatingMin: 0, Category: AllCategories}, DefaultPriceCeiling)
	assert.True(t, c.IsEmpty())

	c = FromSidebar(Sidebar{PriceMax: 120, RatingMin: 3.5, Category: "Apparel"}, DefaultPriceCeiling)
	assert.Equal(t, Constraints{PriceMax: f64(120), RatingMin: f64(3.5), Category: str("Apparel")}, c)

	c = FromSidebar(Sidebar{PriceMax: 500, Category: " "}, DefaultPriceCeiling)
	assert.True(t, c.IsEmpty())
}

func TestFromOptional(t *testing.T) {
	tests := []struct {
		name      string
		priceMax  *float64
		ratingMin *float64
		category  string
		want      Constraints
	}{
		{"all absent", nil, nil, "", Constraints{}},
		{"below ceiling", f64(120), nil, "", Constraints{PriceMax: f64(120)}},
		{"at ceiling", f64(DefaultPriceCeiling), nil, "", Constraints{}},
		{"above ceiling", f64(400), nil, "", Constraints{}},
		{"zero rating", nil, f64(0), "All", Constraints{}},
		{"rating and category", nil, f64(4.5), "Shoes", Constraints{RatingMin: f64(4.5), Category: str("Shoes")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromOptional(tc.priceMax, tc.ratingMin, tc.category, DefaultPriceCeiling)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		explicit Constraints
		parsed   intent.Intent
		want     Constraints
	}{
		{
			name:   "parsed only",
			parsed: intent.Intent{PriceMax: f64(100), RatingMin: f64(4), Category: str("Shoes")},
			want:   Constraints{PriceMax: f64(100), RatingMin: f64(4), Category: str("Shoes")},
		},
		{
			name:     "explicit only",
			explicit: Constraints{PriceMax: f64(50), Category: str("Fitness")},
			want:     Constraints{PriceMax: f64(50), Category: str("Fitness")},
		},
		{
			name:     "lower ceiling and higher floor win",
			explicit: Constraints{PriceMax: f64(80), RatingMin: f64(4.5)},
			parsed:   intent.Intent{PriceMax: f64(100), RatingMin: f64(4)},
			want:     Constraints{PriceMax: f64(80), RatingMin: f64(4.5)},
		},
		{
			name:     "parsed tighter",
			explicit: Constraints{PriceMax: f64(200), RatingMin: f64(3)},
			parsed:   intent.Intent{PriceMax: f64(100), RatingMin: f64(4)},
			want:     Constraints{PriceMax: f64(100), RatingMin: f64(4)},
		},
		{
			name:     "explicit category kept",
			explicit: Constraints{Category: str("Apparel")},
			parsed:   intent.Intent{Category: str("Shoes")},
			want:     Constraints{Category: str("Apparel")},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Merge(tc.explicit, tc.parsed))
		})
	}
}
