package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/totostore/storefront/internal/webhooks"
)

// NewRouter mounts the full API surface.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", handler.ListProducts)
			r.Post("/", handler.CreateProduct)
			r.Get("/category/{category}", handler.ProductsByCategory)
			r.Get("/{id}", handler.GetProduct)
			r.Put("/{id}", handler.UpdateProduct)
			r.Delete("/{id}", handler.DeleteProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", handler.ListOrders)
			r.Post("/", handler.CreateOrder)
			r.Get("/{id}", handler.GetOrder)
			r.Post("/{id}/resend-call", handler.ResendCall)
			r.Put("/{id}/status", handler.UpdateOrderStatus)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", handler.AdminDashboard)
			r.Get("/orders", handler.AdminOrders)
			r.Post("/call-customer/{orderId}", handler.AdminCallCustomer)
			r.Post("/call-direct", handler.AdminCallDirect)
			r.Put("/orders/{id}/status", handler.AdminUpdateOrderStatus)
			r.Delete("/orders/{id}", handler.AdminDeleteOrder)
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/call-delivery", handler.Webhook(webhooks.KindCallDelivery))
			r.Post("/caller-id-status", handler.Webhook(webhooks.KindCallerIDStatus))
			r.Post("/call-center-status", handler.Webhook(webhooks.KindCallCenterStatus))
			r.Post("/call-end", handler.Webhook(webhooks.KindCallEnd))
			r.Get("/logs", handler.WebhookLogs)
			r.Delete("/logs", handler.ClearWebhookLogs)
		})
	})

	return r
}
