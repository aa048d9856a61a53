// Package store defines the persistence ports for the storefront.
// Services depend on these interfaces, not on SQLite directly, so the
// implementation can be swapped for Postgres, in-memory (tests), etc.
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/totostore/storefront/internal/domain"
)

// ErrNotFound is returned when a product or order id has no match.
// Handlers translate it to HTTP 404.
var ErrNotFound = errors.New("store: not found")

// ProductRepository is the catalog persistence port.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// OrderRepository is the order persistence port. Orders always travel with
// their line items; the items have no life of their own.
type OrderRepository interface {
	// Create persists the order and its items in one transaction.
	Create(ctx context.Context, o *domain.Order) error

	Get(ctx context.Context, id string) (*domain.Order, error)

	// List returns all orders, newest first.
	List(ctx context.Context) ([]domain.Order, error)

	// ListByStatus filters by case-insensitive exact status match.
	ListByStatus(ctx context.Context, status string) ([]domain.Order, error)

	// Recent returns the n newest orders.
	Recent(ctx context.Context, n int) ([]domain.Order, error)

	// UpdateStatus persists the status verbatim; any string is accepted.
	UpdateStatus(ctx context.Context, id, status string) error

	// UpdateCallStatus writes only the call-status text.
	UpdateCallStatus(ctx context.Context, id, callStatus string) error

	// UpdateCallDispatch records a dispatch outcome: call-status plus the
	// payload echo used later for webhook correlation.
	UpdateCallDispatch(ctx context.Context, id, callStatus, callPayload string) error

	// UpdateConfirmation applies a webhook-driven transition: status and
	// call-status in a single write.
	UpdateConfirmation(ctx context.Context, id, status, callStatus string) error

	// Delete removes the order and cascades to its items.
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)

	// ConfirmedRevenue sums the totals of all Confirmed orders.
	ConfirmedRevenue(ctx context.Context) (decimal.Decimal, error)
}

// WebhookLogRepository is the append-only audit sink for inbound webhooks.
type WebhookLogRepository interface {
	Append(ctx context.Context, l *domain.WebhookLog) error

	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]domain.WebhookLog, error)

	Clear(ctx context.Context) error
}
