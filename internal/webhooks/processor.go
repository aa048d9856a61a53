// Package webhooks reconciles asynchronous gateway callbacks into order state.
//
// Four inbound kinds share one audit sink: every payload is logged verbatim
// before any processing, so the log survives unmatched or malformed events.
// Only call-delivery mutates orders.
package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/totostore/storefront/internal/domain"
	"github.com/totostore/storefront/internal/store"
)

// Kind tags an inbound webhook variant.
type Kind string

const (
	KindCallDelivery     Kind = "call-delivery"
	KindCallerIDStatus   Kind = "caller-id-status"
	KindCallCenterStatus Kind = "call-center-status"
	KindCallEnd          Kind = "call-end"
)

// Event is one inbound webhook: a kind tag plus the raw body.
type Event struct {
	Kind       Kind
	Payload    json.RawMessage
	ReceivedAt time.Time
}

// DeliveryPayload is the call-delivery webhook body. CallPayload carries back
// the correlation id handed to the gateway at dispatch time (the order id).
type DeliveryPayload struct {
	CallPayload       string `json:"callPayload"`
	CallerID          string `json:"callerId"`
	Number            string `json:"number"`
	UserPressed       string `json:"userPressed"`
	Actions           string `json:"actions"`
	Duration          string `json:"duration"`
	Status            string `json:"status"`
	ForwardNumber     string `json:"forwardNumber,omitempty"`
	RecordAudioURL    string `json:"recordAudioURL,omitempty"`
	RecordTranscribed string `json:"recordTranscribed,omitempty"`
}

// EndCallPayload is the call-end webhook body, logged for billing visibility.
type EndCallPayload struct {
	CompanyName string          `json:"companyName"`
	AgentEmail  string          `json:"agentEmail"`
	CallerID    string          `json:"callerId"`
	Number      string          `json:"number"`
	CallType    string          `json:"callType"`
	Status      string          `json:"status"`
	Duration    int             `json:"duration"`
	Billing     decimal.Decimal `json:"billing"`
	RecFile     string          `json:"recFile,omitempty"`
	Payload     string          `json:"payload,omitempty"`
}

// Processor routes events to their per-kind handler after the audit write.
type Processor struct {
	logs     store.WebhookLogRepository
	orders   store.OrderRepository
	handlers map[Kind]func(ctx context.Context, payload json.RawMessage) error
}

// NewProcessor wires the webhook processor.
func NewProcessor(logs store.WebhookLogRepository, orderRepo store.OrderRepository) *Processor {
	p := &Processor{logs: logs, orders: orderRepo}
	p.handlers = map[Kind]func(context.Context, json.RawMessage) error{
		KindCallDelivery: p.handleCallDelivery,
		KindCallEnd:      p.handleCallEnd,
		// caller-id-status and call-center-status are audit-only.
	}
	return p
}

// Process logs the event and then runs its handler, if any. An event whose
// correlation id matches nothing is NOT an error: it is logged and dropped.
func (p *Processor) Process(ctx context.Context, evt Event) error {
	entry := &domain.WebhookLog{
		ID:         uuid.NewString(),
		Type:       string(evt.Kind),
		Payload:    string(evt.Payload),
		ReceivedAt: evt.ReceivedAt,
	}
	if err := p.logs.Append(ctx, entry); err != nil {
		return fmt.Errorf("webhooks: audit %s: %w", evt.Kind, err)
	}

	handler, ok := p.handlers[evt.Kind]
	if !ok {
		return nil
	}
	return handler(ctx, evt.Payload)
}

// handleCallDelivery applies the menu-key decision rule:
// "1..." confirms, "2..." cancels, anything else only updates the call-status
// text. Replayed events re-apply the same write, which is idempotent.
func (p *Processor) handleCallDelivery(ctx context.Context, payload json.RawMessage) error {
	var d DeliveryPayload
	if err := json.Unmarshal(payload, &d); err != nil {
		// Already in the audit log; nothing to reconcile.
		slog.WarnContext(ctx, "malformed call-delivery payload", "error", err)
		return nil
	}
	if d.CallPayload == "" {
		return nil
	}

	orderID := d.CallPayload
	slog.InfoContext(ctx, "call delivery received", "order_id", orderID,
		"user_pressed", d.UserPressed, "status", d.Status, "actions", d.Actions)

	var err error
	switch {
	case strings.HasPrefix(d.UserPressed, "1"):
		err = p.orders.UpdateConfirmation(ctx, orderID, domain.StatusConfirmed, "Confirmed via Call")
	case strings.HasPrefix(d.UserPressed, "2"):
		err = p.orders.UpdateConfirmation(ctx, orderID, domain.StatusCancelled, "Cancelled via Call")
	default:
		err = p.orders.UpdateCallStatus(ctx, orderID, "Call "+d.Status)
	}

	if errors.Is(err, store.ErrNotFound) {
		// No authenticity check exists on this endpoint, so unknown ids are
		// expected noise: keep the audit row, surface nothing.
		slog.InfoContext(ctx, "call delivery for unknown order, dropped", "order_id", orderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("webhooks: call delivery for order %q: %w", orderID, err)
	}
	return nil
}

// handleCallEnd only logs duration and billing; it never touches order state.
func (p *Processor) handleCallEnd(ctx context.Context, payload json.RawMessage) error {
	var e EndCallPayload
	if err := json.Unmarshal(payload, &e); err != nil {
		slog.WarnContext(ctx, "malformed call-end payload", "error", err)
		return nil
	}
	slog.InfoContext(ctx, "call ended", "agent", e.AgentEmail, "number", e.Number,
		"duration_s", e.Duration, "status", e.Status, "billing", e.Billing.String())
	return nil
}
