package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/findlunch/ordercore/api/controllers"
	"github.com/findlunch/ordercore/api/middleware"
	"github.com/findlunch/ordercore/internal/cart"
	"github.com/findlunch/ordercore/internal/orders"
	"github.com/findlunch/ordercore/pkg/config"
	"github.com/findlunch/ordercore/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	carts *cart.Store,
	ordersSvc *orders.Service,
	offers controllers.OffersService,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Get("/api/v1/restaurants/{restaurantID}/offers", controllers.RestaurantOffers(offers, logg))

	r.Route("/api/v1/carts/{restaurantID}", func(r chi.Router) {
		r.Get("/", controllers.CartFetch(carts, logg))
		r.Post("/items", controllers.CartAddItem(carts, logg))
		r.Delete("/", controllers.CartEmpty(carts, logg))
		r.Post("/draft", controllers.DraftOpen(ordersSvc, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Route("/{draftID}", func(r chi.Router) {
			r.Get("/", controllers.DraftFetch(ordersSvc, logg))
			r.Delete("/", controllers.DraftDiscard(ordersSvc, logg))
			r.Post("/lines/{itemID}/increase", controllers.LineIncrease(ordersSvc, logg))
			r.Post("/lines/{itemID}/decrease", controllers.LineDecrease(ordersSvc, logg))
			r.Post("/donation/increment", controllers.DonationIncrement(ordersSvc, logg))
			r.Post("/donation/decrement", controllers.DonationDecrement(ordersSvc, logg))
			r.Post("/points", controllers.UsePoints(ordersSvc, logg))
			r.Post("/submit", controllers.OrderSubmit(ordersSvc, logg))
		})
	})

	return r
}
