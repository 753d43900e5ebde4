package catalog

import (
	"fmt"
	"math"
)

// MaxRating is the upper bound of the rating scale.
const MaxRating = 5.0

// Item is a single catalog product (immutable value object).
type Item struct {
	id          string
	name        string
	description string
	category    string
	price       float64
	basePrice   float64
	rating      float64
	text        string
}

// NewItem validates and creates an Item.
// basePrice defaults to price when nil. The searchable text is derived here and
// cannot be set independently.
func NewItem(
	id, name, description, category string,
	price float64, basePrice *float64, rating float64,
) (Item, error) {
	if id == "" {
		return Item{}, fmt.Errorf("item ID is required")
	}
	if name == "" {
		return Item{}, fmt.Errorf("item %q: name is required", id)
	}
	if invalidAmount(price) {
		return Item{}, fmt.Errorf("item %q: price must be a non-negative number, got %v", id, price)
	}
	base := price
	if basePrice != nil {
		base = *basePrice
	}
	if invalidAmount(base) {
		return Item{}, fmt.Errorf("item %q: base price must be a non-negative number, got %v", id, base)
	}
	if math.IsNaN(rating) || rating < 0 || rating > MaxRating {
		return Item{}, fmt.Errorf("item %q: rating must be between 0 and %.0f, got %v", id, MaxRating, rating)
	}

	return Item{
		id:          id,
		name:        name,
		description: description,
		category:    category,
		price:       price,
		basePrice:   base,
		rating:      rating,
		text:        DeriveText(name, description, category),
	}, nil
}

// DeriveText builds the searchable text of an item.
func DeriveText(name, description, category string) string {
	return name + " " + description + " " + category
}

// ID returns the stable item identifier.
func (i Item) ID() string { return i.id }

// Name returns the product name.
func (i Item) Name() string { return i.name }

// Description returns the product description.
func (i Item) Description() string { return i.description }

// Category returns the category with catalog casing.
func (i Item) Category() string { return i.category }

// Price returns the current (possibly adjusted) price.
func (i Item) Price() float64 { return i.price }

// BasePrice returns the price as loaded, before any adjustment.
func (i Item) BasePrice() float64 { return i.basePrice }

// Rating returns the review rating in [0,5].
func (i Item) Rating() float64 { return i.rating }

// Text returns the derived searchable text.
func (i Item) Text() string { return i.text }

// PriceAdjusted reports whether the current price differs from the base price.
func (i Item) PriceAdjusted() bool { return i.price != i.basePrice }

// WithPrice returns a copy with only the current price replaced.
func (i Item) WithPrice(price float64) Item {
	i.price = price
	return i
}

func invalidAmount(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}
