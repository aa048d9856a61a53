// Package admin is the back-office read/query layer over orders plus the
// manual call-trigger actions.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/totostore/storefront/internal/config"
	"github.com/totostore/storefront/internal/domain"
	"github.com/totostore/storefront/internal/manydial"
	"github.com/totostore/storefront/internal/orders"
	"github.com/totostore/storefront/internal/store"
)

const recentOrdersLimit = 10

// Dashboard is the aggregate view shown on the admin landing page.
type Dashboard struct {
	TotalOrders     int             `json:"totalOrders"`
	PendingOrders   int             `json:"pendingOrders"`
	ConfirmedOrders int             `json:"confirmedOrders"`
	CancelledOrders int             `json:"cancelledOrders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalProducts   int             `json:"totalProducts"`
	RecentOrders    []domain.Order  `json:"recentOrders"`
}

// CallResult reports a manual call-trigger action back to the admin UI,
// including the raw gateway acknowledgment.
type CallResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Phone       string `json:"phone"`
	OrderID     string `json:"orderId,omitempty"`
	APIResponse string `json:"apiResponse"`
}

// Service implements the admin operations.
type Service struct {
	orders        store.OrderRepository
	products      store.ProductRepository
	dialer        orders.CallDispatcher
	forwardNumber string
	deliveryHook  string
}

// NewService wires the admin service.
func NewService(orderRepo store.OrderRepository, productRepo store.ProductRepository, dialer orders.CallDispatcher, cfg config.Config) *Service {
	return &Service{
		orders:        orderRepo,
		products:      productRepo,
		dialer:        dialer,
		forwardNumber: cfg.ManyDial.ForwardNumber,
		deliveryHook:  cfg.PublicBaseURL + "/api/webhooks/call-delivery",
	}
}

// Dashboard aggregates order counts by status, confirmed revenue, catalog
// size and the ten most recent orders.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	var err error

	if d.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, fmt.Errorf("admin: dashboard: %w", err)
	}
	if d.PendingOrders, err = s.orders.CountByStatus(ctx, domain.StatusPending); err != nil {
		return nil, fmt.Errorf("admin: dashboard: %w", err)
	}
	if d.ConfirmedOrders, err = s.orders.CountByStatus(ctx, domain.StatusConfirmed); err != nil {
		return nil, fmt.Errorf("admin: dashboard: %w", err)
	}
	if d.CancelledOrders, err = s.orders.CountByStatus(ctx, domain.StatusCancelled); err != nil {
		return nil, fmt.Errorf("admin: dashboard: %w", err)
	}
	if d.TotalRevenue, err = s.orders.ConfirmedRevenue(ctx); err != nil {
		return nil, fmt.Errorf("admin: dashboard: %w", err)
	}
	if d.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, fmt.Errorf("admin: dashboard: %w", err)
	}
	if d.RecentOrders, err = s.orders.Recent(ctx, recentOrdersLimit); err != nil {
		return nil, fmt.Errorf("admin: dashboard: %w", err)
	}
	return d, nil
}

// Orders lists all orders, optionally filtered by status (case-insensitive
// exact match), newest first.
func (s *Service) Orders(ctx context.Context, status string) ([]domain.Order, error) {
	if status == "" {
		return s.orders.List(ctx)
	}
	return s.orders.ListByStatus(ctx, status)
}

// UpdateStatus overrides an order's status with whatever string the admin
// sent. No transition rules are enforced.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	return s.orders.UpdateStatus(ctx, id, status)
}

// DeleteOrder hard-deletes an order; its line items cascade.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

// CallCustomer dispatches a confirmation call for an existing order, reusing
// its phone and amount for the voice script. message and confirmMessage
// override the default script text when non-empty. Configuration and
// transport errors propagate to the caller; a parsed non-success is reported
// in the result and on the order's call-status.
func (s *Service) CallCustomer(ctx context.Context, orderID, message, confirmMessage string) (*CallResult, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	resp, err := s.dialer.DispatchCall(ctx, manydial.DispatchRequest{
		CallPayload:     order.ID,
		Number:          order.CustomerPhone,
		PerCallDuration: "3",
		Script:          manydial.ConfirmationScript(order.CustomerName, order.TotalAmount, s.forwardNumber, message, confirmMessage),
		Buttons:         manydial.ConfirmationButtons(),
		DeliveryHook:    s.deliveryHook,
	})
	if err != nil {
		return nil, fmt.Errorf("admin: call customer for order %q: %w", orderID, err)
	}

	callStatus := "Admin Call Initiated"
	resultMsg := "Call dispatched successfully"
	if !resp.Success {
		callStatus = "Admin Call Failed: " + resp.Raw
		resultMsg = "Call dispatch failed"
	}
	if err := s.orders.UpdateCallStatus(ctx, order.ID, callStatus); err != nil {
		return nil, fmt.Errorf("admin: call customer for order %q: %w", orderID, err)
	}

	slog.InfoContext(ctx, "admin call dispatched", "order_id", order.ID,
		"number", order.CustomerPhone, "success", resp.Success)

	return &CallResult{
		Success:     resp.Success,
		Message:     resultMsg,
		Phone:       order.CustomerPhone,
		OrderID:     order.ID,
		APIResponse: resp.Raw,
	}, nil
}

// CallDirect dispatches an ad-hoc call to an arbitrary phone number, not tied
// to any order. Numbers without a + prefix get the local +880 country code.
func (s *Service) CallDirect(ctx context.Context, phone, message string) (*CallResult, error) {
	number := phone
	if !strings.HasPrefix(number, "+") {
		number = "+880" + number
	}

	resp, err := s.dialer.DispatchCall(ctx, manydial.DispatchRequest{
		CallPayload:     fmt.Sprintf("admin-direct-%d", time.Now().UnixNano()),
		Number:          number,
		PerCallDuration: "3",
		Script:          manydial.DirectScript(message, s.forwardNumber),
		Buttons:         manydial.DirectButtons(),
		DeliveryHook:    s.deliveryHook,
	})
	if err != nil {
		return nil, fmt.Errorf("admin: direct call to %q: %w", phone, err)
	}

	slog.InfoContext(ctx, "admin direct call dispatched", "number", number, "success", resp.Success)

	resultMsg := "Call dispatched"
	if !resp.Success {
		resultMsg = "Call failed"
	}
	return &CallResult{
		Success:     resp.Success,
		Message:     resultMsg,
		Phone:       phone,
		APIResponse: resp.Raw,
	}, nil
}
