package httpx

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/totostore/storefront/internal/domain"
	"github.com/totostore/storefront/internal/orders"
	"github.com/totostore/storefront/internal/store"
)

// ListOrders returns all orders, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orderSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_orders_failed", err.Error())
		return
	}
	if list == nil {
		list = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetOrder returns one order with its items.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_order_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// CreateOrder receives a checkout submission, persists the order and fires
// the confirmation call. A failed call never fails this request.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	items := make([]orders.NewItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, orders.NewItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			ImageURL:    it.ImageURL,
		})
	}

	order, err := h.orderSvc.Create(r.Context(), orders.CustomerInfo{
		Name:            req.CustomerName,
		Email:           req.CustomerEmail,
		Phone:           req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
	}, items, req.TotalAmount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create_order_failed", err.Error())
		return
	}

	w.Header().Set("Location", "/api/orders/"+order.ID)
	writeJSON(w, http.StatusCreated, order)
}

// ResendCall re-triggers the confirmation call for an order.
func (h *Handler) ResendCall(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.ResendCall(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "resend_call_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "Confirmation call resent",
		"callStatus": order.CallStatus,
	})
}

// UpdateOrderStatus persists a caller-supplied status verbatim.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	order, err := h.orderSvc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "update_status_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}
