package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/findlunch/ordercore/api/responses"
	"github.com/findlunch/ordercore/api/validators"
	cartstore "github.com/findlunch/ordercore/internal/cart"
	"github.com/findlunch/ordercore/internal/catalog"
	"github.com/findlunch/ordercore/internal/pricing"
	"github.com/findlunch/ordercore/pkg/logger"
)

// CartFetch returns the restaurant's cart lines and the badge counter.
func CartFetch(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantID, err := validators.URLParamInt64(r, "restaurantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c := store.GetCart(restaurantID)
		responses.WriteSuccess(w, newCartResponse(c))
	}
}

// CartAddItem puts one unit of a catalog item into the restaurant's cart.
// Re-adding a known item raises its amount instead of duplicating the line.
func CartAddItem(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantID, err := validators.URLParamInt64(r, "restaurantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.AddItem(restaurantID, payload.toItem())

		ctx := r.Context()
		if logg != nil {
			logg.Info(logg.WithRestaurantID(ctx, restaurantID), "item added to cart")
		}
		responses.WriteSuccess(w, newCartResponse(store.GetCart(restaurantID)))
	}
}

// CartEmpty discards the restaurant's cart contents.
func CartEmpty(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantID, err := validators.URLParamInt64(r, "restaurantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.EmptyCart(restaurantID)
		responses.WriteSuccess(w, newCartResponse(store.GetCart(restaurantID)))
	}
}

type addItemRequest struct {
	ID              int64           `json:"id" validate:"required,gt=0"`
	Title           string          `json:"title" validate:"required"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	NeededPoints    int             `json:"needed_points" validate:"min=0"`
	PreparationTime int             `json:"preparation_time" validate:"min=0"`
	SoldOut         bool            `json:"sold_out"`
}

func (p addItemRequest) toItem() catalog.Item {
	return catalog.Item{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Price:           p.Price,
		NeededPoints:    p.NeededPoints,
		PreparationTime: p.PreparationTime,
		SoldOut:         p.SoldOut,
	}
}

type cartResponse struct {
	RestaurantID int64              `json:"restaurant_id"`
	ItemCount    int                `json:"item_count"`
	TotalPrice   decimal.Decimal    `json:"total_price"`
	Lines        []cartLineResponse `json:"lines"`
}

type cartLineResponse struct {
	Item   catalog.Item `json:"item"`
	Amount int          `json:"amount"`
}

func newCartResponse(c *cartstore.Cart) cartResponse {
	lines := c.Lines()
	resp := cartResponse{
		RestaurantID: c.RestaurantID(),
		ItemCount:    c.ItemCount(),
		TotalPrice:   pricing.Total(lines),
		Lines:        make([]cartLineResponse, 0, len(lines)),
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, cartLineResponse{Item: line.Item, Amount: line.Amount})
	}
	return resp
}
