package catalog

import "github.com/shopspring/decimal"

// Item is one menu offer as served by the catalog API. Immutable once
// fetched; the per-cart quantity lives on the cart line, not here.
type Item struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	NeededPoints    int             `json:"neededPoints"`
	PreparationTime int             `json:"preparationTime,omitempty"`
	SoldOut         bool            `json:"sold_out"`
}
