package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"petsy/internal/catalog"
	checkoutctrl "petsy/internal/checkout/controller"
	"petsy/internal/identity"
	"petsy/internal/metrics"
)

func NewRouter(
	checkout *checkoutctrl.CheckoutController,
	products *catalog.Controller,
	provider identity.CurrentUserProvider,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(identity.Session(provider))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", checkout.StartOrder)
		r.Get("/{orderId}/edit", checkout.ViewForEdit)
		r.Patch("/{orderId}", checkout.UpdateDetails)
		r.Get("/{orderId}/finalize", checkout.ViewForFinalize)
		r.Post("/{orderId}/place", checkout.PlaceOrder)
		r.Post("/{orderId}/cancel", checkout.CancelOrder)
		r.Get("/{orderId}/confirmation", checkout.Confirm)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/{productId}", products.GetProduct)
		r.Get("/{productId}/availability", products.CheckAvailability)
	})

	return r
}
