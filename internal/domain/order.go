// Package domain defines the storefront entities shared across services.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order.
//
// It is deliberately NOT a closed enum: admin overrides may write any string
// (e.g. "Shipped") and the store persists it verbatim. The constants below
// are only the values this codebase itself writes.
type Status = string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
)

// Order is a customer order created from a checkout submission.
type Order struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	ShippingAddress string          `json:"shippingAddress"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`

	// CallStatus is free text describing the latest confirmation-call
	// outcome ("Call Initiated", "Confirmed via Call", ...). Empty until a
	// call has been attempted.
	CallStatus string `json:"callStatus,omitempty"`

	// CallPayload echoes the order id handed to the call gateway; the
	// delivery webhook sends it back for correlation.
	CallPayload string `json:"callPayload,omitempty"`
}

// OrderItem is a denormalised snapshot of a product at order time.
// Later product edits or deletes do not affect it.
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     string          `json:"orderId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"imageUrl"`
}

// Subtotal is the line total for this item.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
