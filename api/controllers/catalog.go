package controllers

import (
	"context"
	"net/http"

	"github.com/findlunch/ordercore/api/responses"
	"github.com/findlunch/ordercore/api/validators"
	"github.com/findlunch/ordercore/internal/catalog"
	"github.com/findlunch/ordercore/pkg/logger"
)

// OffersService lists a restaurant's current menu.
type OffersService interface {
	RestaurantOffers(ctx context.Context, restaurantID int64) ([]catalog.Item, error)
}

// RestaurantOffers proxies the upstream catalog so clients can browse a menu
// before filling the cart.
func RestaurantOffers(svc OffersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantID, err := validators.URLParamInt64(r, "restaurantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.RestaurantOffers(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
