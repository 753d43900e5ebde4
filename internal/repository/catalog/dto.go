package catalog

import (
	"strconv"

	domcat "github.com/kailas-cloud/shopsearch/internal/domain/catalog"
)

// record is the on-disk shape of one product.
type record struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Price       float64  `json:"price" yaml:"price"`
	BasePrice   *float64 `json:"base_price,omitempty" yaml:"base_price,omitempty"`
	Rating      float64  `json:"rating" yaml:"rating"`
}

// toDomain converts records into a catalog. Records without an ID get their row position.
func toDomain(records []record) (domcat.Catalog, error) {
	items := make([]domcat.Item, 0, len(records))
	for i, r := range records {
		id := r.ID
		if id == "" {
			id = strconv.Itoa(i)
		}
		it, err := domcat.NewItem(id, r.Name, r.Description, r.Category, r.Price, r.BasePrice, r.Rating)
		if err != nil {
			return domcat.Catalog{}, err
		}
		items = append(items, it)
	}
	return domcat.New(items)
}

func fromDomain(c domcat.Catalog) []record {
	items := c.Items()
	out := make([]record, len(items))
	for i, it := range items {
		base := it.BasePrice()
		out[i] = record{
			ID:          it.ID(),
			Name:        it.Name(),
			Description: it.Description(),
			Category:    it.Category(),
			Price:       it.Price(),
			BasePrice:   &base,
			Rating:      it.Rating(),
		}
	}
	return out
}
