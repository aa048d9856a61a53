package domain

import "github.com/shopspring/decimal"

// Product is an independently owned catalog entity.
//
// Stock is informational only: order placement never decrements it. There is
// no inventory reservation anywhere in the system.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
}
