// Package httpx is the HTTP surface of the storefront: catalog CRUD, orders,
// admin actions and the webhook receiver.
package httpx

import (
	"encoding/json"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/totostore/storefront/internal/admin"
	"github.com/totostore/storefront/internal/orders"
	"github.com/totostore/storefront/internal/store"
	"github.com/totostore/storefront/internal/webhooks"
)

// Handler handles all incoming HTTP requests.
type Handler struct {
	products  store.ProductRepository
	orderSvc  *orders.Service
	adminSvc  *admin.Service
	processor *webhooks.Processor
	hookLogs  store.WebhookLogRepository
	validate  *validatorv10.Validate
}

// NewHandler initializes the handler with its required services.
func NewHandler(
	products store.ProductRepository,
	orderSvc *orders.Service,
	adminSvc *admin.Service,
	processor *webhooks.Processor,
	hookLogs store.WebhookLogRepository,
) *Handler {
	return &Handler{
		products:  products,
		orderSvc:  orderSvc,
		adminSvc:  adminSvc,
		processor: processor,
		hookLogs:  hookLogs,
		validate:  validatorv10.New(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
