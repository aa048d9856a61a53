package httpx

import (
	"io"
	"net/http"
	"time"

	"github.com/totostore/storefront/internal/domain"
	"github.com/totostore/storefront/internal/webhooks"
)

// webhookLogLimit caps the demo/debug log listing.
const webhookLogLimit = 50

// Webhook returns a handler for one inbound event kind. Every payload is
// acknowledged with success:true; the gateway is not expected to retry, and
// unmatched correlation is not an error.
func (h *Handler) Webhook(kind webhooks.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable_body", err.Error())
			return
		}

		err = h.processor.Process(r.Context(), webhooks.Event{
			Kind:       kind,
			Payload:    payload,
			ReceivedAt: time.Now().UTC(),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "webhook_processing_failed", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, WebhookAck{Success: true, Message: "Webhook received"})
	}
}

// WebhookLogs lists the most recent audit entries.
func (h *Handler) WebhookLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.hookLogs.List(r.Context(), webhookLogLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_webhook_logs_failed", err.Error())
		return
	}
	if logs == nil {
		logs = []domain.WebhookLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// ClearWebhookLogs wipes the audit table (demo/debug only).
func (h *Handler) ClearWebhookLogs(w http.ResponseWriter, r *http.Request) {
	if err := h.hookLogs.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "clear_webhook_logs_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logs cleared"})
}
