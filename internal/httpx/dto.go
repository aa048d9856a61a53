package httpx

import "github.com/shopspring/decimal"

// CreateOrderRequest is the checkout submission. TotalAmount is trusted
// as-is; the server does not recompute it from the items.
type CreateOrderRequest struct {
	CustomerName    string          `json:"customerName" validate:"required"`
	CustomerEmail   string          `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone   string          `json:"customerPhone" validate:"required"`
	ShippingAddress string          `json:"shippingAddress" validate:"required"`
	Items           []CartItemDTO   `json:"items" validate:"required,min=1,dive"`
	TotalAmount     decimal.Decimal `json:"totalAmount" validate:"required"`
}

// CartItemDTO is one cart line from the front end.
type CartItemDTO struct {
	ProductID   int64           `json:"productId" validate:"required"`
	ProductName string          `json:"productName" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	ImageURL    string          `json:"imageUrl"`
}

// ProductRequest creates or updates a catalog product. ID is only read on
// update, where it must match the path when present.
type ProductRequest struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock" validate:"min=0"`
}

// UpdateStatusRequest carries a new order status. Any non-empty string is
// accepted and persisted verbatim.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminCallRequest optionally overrides the voice script of a manual
// confirmation call. An empty body keeps the default script.
type AdminCallRequest struct {
	Message        string `json:"message"`
	ConfirmMessage string `json:"confirmMessage"`
}

// DirectCallRequest dispatches an ad-hoc call to an arbitrary number.
type DirectCallRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message"`
}

// MessageResponse is a generic acknowledgment body.
type MessageResponse struct {
	Message string `json:"message"`
}

// WebhookAck is returned to the gateway for every webhook, regardless of
// whether correlation succeeded.
type WebhookAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
