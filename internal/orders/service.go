// Package orders implements the order lifecycle: creation from checkout
// submissions, the confirmation-call side effect, and status mutation.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/totostore/storefront/internal/config"
	"github.com/totostore/storefront/internal/domain"
	"github.com/totostore/storefront/internal/manydial"
	"github.com/totostore/storefront/internal/store"
)

// Call-status values written by the dispatch path.
const (
	CallInitiated    = "Call Initiated"
	CallError        = "Call Error"
	CallNoAPIKey     = "Call Failed - No API Key"
	CallNoCallerID   = "Call Failed - No Caller ID"
	callFailedFormat = "Call Failed: %s"
)

// perCallDuration is the gateway call-duration budget for confirmation calls.
const perCallDuration = "3"

// CallDispatcher is the slice of the gateway client this service needs.
type CallDispatcher interface {
	DispatchCall(ctx context.Context, req manydial.DispatchRequest) (*manydial.DispatchResponse, error)
}

// CustomerInfo is the checkout contact block.
type CustomerInfo struct {
	Name            string
	Email           string
	Phone           string
	ShippingAddress string
}

// NewItem is one cart line at checkout time. The fields are snapshotted onto
// the order; later product edits do not affect it.
type NewItem struct {
	ProductID   int64
	ProductName string
	Price       decimal.Decimal
	Quantity    int
	ImageURL    string
}

// Service creates and mutates orders.
type Service struct {
	orders        store.OrderRepository
	dialer        CallDispatcher
	forwardNumber string
	deliveryHook  string
}

// NewService wires the order service. cfg supplies the agent forward number
// and the public base URL the gateway posts webhooks back to.
func NewService(orders store.OrderRepository, dialer CallDispatcher, cfg config.Config) *Service {
	return &Service{
		orders:        orders,
		dialer:        dialer,
		forwardNumber: cfg.ManyDial.ForwardNumber,
		deliveryHook:  cfg.PublicBaseURL + "/api/webhooks/call-delivery",
	}
}

// Create persists a new Pending order, then fires the confirmation call and
// records its outcome in a second write. The caller-supplied total is trusted
// as-is. A gateway failure never fails the creation: the order survives with
// whatever call-status the dispatch produced.
func (s *Service) Create(ctx context.Context, info CustomerInfo, items []NewItem, total decimal.Decimal) (*domain.Order, error) {
	order := &domain.Order{
		ID:              uuid.NewString(),
		CustomerName:    info.Name,
		CustomerEmail:   info.Email,
		CustomerPhone:   info.Phone,
		ShippingAddress: info.ShippingAddress,
		TotalAmount:     total,
		Status:          domain.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			ImageURL:    it.ImageURL,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("orders: create: %w", err)
	}
	slog.InfoContext(ctx, "order created", "order_id", order.ID, "total", total.String())

	callStatus, callPayload := s.dispatchConfirmation(ctx, order, "", "")
	order.CallStatus = callStatus
	order.CallPayload = callPayload
	if err := s.orders.UpdateCallDispatch(ctx, order.ID, callStatus, callPayload); err != nil {
		// The order already exists; losing the call-status write is the
		// documented durability gap of the two-write creation.
		slog.ErrorContext(ctx, "order created but call status not persisted",
			"order_id", order.ID, "call_status", callStatus, "error", err)
	}
	return order, nil
}

// Get returns one order or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.Get(ctx, id)
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// ResendCall re-triggers the confirmation call for an existing order,
// overwriting its call-status.
func (s *Service) ResendCall(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	callStatus, callPayload := s.dispatchConfirmation(ctx, order, "", "")
	order.CallStatus = callStatus
	order.CallPayload = callPayload
	if err := s.orders.UpdateCallDispatch(ctx, order.ID, callStatus, callPayload); err != nil {
		return nil, fmt.Errorf("orders: resend call: %w", err)
	}
	return order, nil
}

// UpdateStatus persists the status verbatim. There is no enum validation;
// any string a caller sends is stored.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.orders.Get(ctx, id)
}

// dispatchConfirmation fires the confirmation call and maps the outcome to a
// call-status string. It never returns an error: call dispatch is best-effort
// and decoupled from order durability.
func (s *Service) dispatchConfirmation(ctx context.Context, o *domain.Order, welcome, confirm string) (callStatus, callPayload string) {
	resp, err := s.dialer.DispatchCall(ctx, manydial.DispatchRequest{
		CallPayload:     o.ID,
		Number:          o.CustomerPhone,
		PerCallDuration: perCallDuration,
		Script:          manydial.ConfirmationScript(o.CustomerName, o.TotalAmount, s.forwardNumber, welcome, confirm),
		Buttons:         manydial.ConfirmationButtons(),
		DeliveryHook:    s.deliveryHook,
	})
	switch {
	case errors.Is(err, manydial.ErrNoAPIKey):
		slog.ErrorContext(ctx, "call skipped: gateway api key missing", "order_id", o.ID)
		return CallNoAPIKey, ""
	case errors.Is(err, manydial.ErrNoCallerID):
		slog.ErrorContext(ctx, "call skipped: caller id missing", "order_id", o.ID)
		return CallNoCallerID, ""
	case err != nil:
		// Transport failures and malformed gateway responses both land
		// here; the distinction is visible in the log, not the order.
		slog.ErrorContext(ctx, "confirmation call failed", "order_id", o.ID, "error", err)
		return CallError, ""
	case resp.Success:
		slog.InfoContext(ctx, "confirmation call dispatched", "order_id", o.ID, "number", o.CustomerPhone)
		return CallInitiated, o.ID
	default:
		// The gateway parsed and refused the dispatch. The payload echo is
		// still recorded: a resend or a late webhook correlates on it.
		slog.WarnContext(ctx, "confirmation call rejected", "order_id", o.ID, "response", resp.Raw)
		return fmt.Sprintf(callFailedFormat, resp.Raw), o.ID
	}
}
