package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/totostore/storefront/internal/domain"
	"github.com/totostore/storefront/internal/manydial"
	"github.com/totostore/storefront/internal/store"
)

// AdminDashboard returns the aggregate order/revenue view.
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.adminSvc.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "dashboard_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// AdminOrders lists orders, optionally filtered by ?status=.
func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.adminSvc.Orders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_orders_failed", err.Error())
		return
	}
	if list == nil {
		list = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

// AdminCallCustomer manually re-dials the customer of an existing order.
// The optional body overrides the default voice script.
func (h *Handler) AdminCallCustomer(w http.ResponseWriter, r *http.Request) {
	// An empty body means "use the default script".
	var req AdminCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result, err := h.adminSvc.CallCustomer(r.Context(), chi.URLParam(r, "orderId"), req.Message, req.ConfirmMessage)
	if err != nil {
		h.writeCallError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AdminCallDirect dispatches an ad-hoc call to an arbitrary phone number.
func (h *Handler) AdminCallDirect(w http.ResponseWriter, r *http.Request) {
	var req DirectCallRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	result, err := h.adminSvc.CallDirect(r.Context(), req.Phone, req.Message)
	if err != nil {
		h.writeCallError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AdminUpdateOrderStatus overrides an order status with an arbitrary string.
func (h *Handler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	orderID := chi.URLParam(r, "id")
	err := h.adminSvc.UpdateStatus(r.Context(), orderID, req.Status)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "update_status_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Status updated",
		"orderId": orderID,
		"status":  req.Status,
	})
}

// AdminDeleteOrder hard-deletes an order and its items.
func (h *Handler) AdminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	err := h.adminSvc.DeleteOrder(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "delete_order_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Order deleted"})
}

// writeCallError maps call-trigger failures: missing order 404, missing
// gateway configuration 400, everything else 500 with the error text in the
// body (known disclosure at this boundary, kept as-is).
func (h *Handler) writeCallError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", "")
	case errors.Is(err, manydial.ErrNoAPIKey):
		writeError(w, http.StatusBadRequest, "gateway_not_configured", "ManyDial API Key not configured")
	case errors.Is(err, manydial.ErrNoCallerID):
		writeError(w, http.StatusBadRequest, "gateway_not_configured", "ManyDial Caller ID not configured")
	default:
		writeError(w, http.StatusInternalServerError, "call_failed", err.Error())
	}
}
