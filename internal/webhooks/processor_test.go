package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totostore/storefront/internal/domain"
	"github.com/totostore/storefront/internal/store/sqlite"
)

func testProcessor(t *testing.T) (*Processor, *sqlite.Store) {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewProcessor(st.WebhookLogs(), st.Orders()), st
}

func seedOrder(t *testing.T, st *sqlite.Store) *domain.Order {
	t.Helper()
	order := &domain.Order{
		ID:            "ord-" + t.Name(),
		CustomerName:  "Karim",
		CustomerPhone: "+8801712345678",
		TotalAmount:   decimal.RequireFromString("550.00"),
		Status:        domain.StatusPending,
		CreatedAt:     time.Now().UTC(),
		CallStatus:    "Call Initiated",
		CallPayload:   "ord-" + t.Name(),
		Items: []domain.OrderItem{
			{ProductID: 1, ProductName: "Headphones", Price: decimal.RequireFromString("550.00"), Quantity: 1},
		},
	}
	require.NoError(t, st.Orders().Create(context.Background(), order))
	return order
}

func deliveryEvent(orderID, userPressed, status string) Event {
	body, _ := json.Marshal(DeliveryPayload{
		CallPayload: orderID,
		UserPressed: userPressed,
		Status:      status,
		Number:      "+8801712345678",
		Duration:    "42",
	})
	return Event{Kind: KindCallDelivery, Payload: body, ReceivedAt: time.Now().UTC()}
}

func TestProcessConfirmsOnKeyOne(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()
	order := seedOrder(t, st)

	require.NoError(t, p.Process(ctx, deliveryEvent(order.ID, "1", "completed")))

	got, err := st.Orders().Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, "Confirmed via Call", got.CallStatus)
}

func TestProcessCancelsOnKeyTwo(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()
	order := seedOrder(t, st)

	require.NoError(t, p.Process(ctx, deliveryEvent(order.ID, "2", "completed")))

	got, err := st.Orders().Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, "Cancelled via Call", got.CallStatus)
}

func TestProcessKeyPrefixMatch(t *testing.T) {
	// The gateway sometimes reports the whole key sequence; only the first
	// press decides.
	p, st := testProcessor(t)
	ctx := context.Background()
	order := seedOrder(t, st)

	require.NoError(t, p.Process(ctx, deliveryEvent(order.ID, "12", "completed")))

	got, err := st.Orders().Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestProcessNoKeyRecordsCallStatus(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()
	order := seedOrder(t, st)

	require.NoError(t, p.Process(ctx, deliveryEvent(order.ID, "", "no-answer")))

	got, err := st.Orders().Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status, "status untouched without a decision key")
	assert.Equal(t, "Call no-answer", got.CallStatus)
}

func TestProcessReplayIsIdempotent(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()
	order := seedOrder(t, st)

	evt := deliveryEvent(order.ID, "1", "completed")
	require.NoError(t, p.Process(ctx, evt))
	require.NoError(t, p.Process(ctx, evt))

	got, err := st.Orders().Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	// Both deliveries are in the audit log.
	logs, err := st.WebhookLogs().List(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestProcessUnknownOrderKeepsAuditRow(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()

	require.NoError(t, p.Process(ctx, deliveryEvent("no-such-order", "1", "completed")))

	logs, err := st.WebhookLogs().List(ctx, 50)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, string(KindCallDelivery), logs[0].Type)
	assert.Contains(t, logs[0].Payload, "no-such-order")

	n, err := st.Orders().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestProcessMalformedPayloadStillAudited(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()

	evt := Event{Kind: KindCallDelivery, Payload: json.RawMessage(`<html>not json</html>`), ReceivedAt: time.Now().UTC()}
	require.NoError(t, p.Process(ctx, evt))

	logs, err := st.WebhookLogs().List(ctx, 50)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, `<html>not json</html>`, logs[0].Payload)
}

func TestProcessEmptyCallPayloadIgnored(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()
	order := seedOrder(t, st)

	require.NoError(t, p.Process(ctx, deliveryEvent("", "1", "completed")))

	got, err := st.Orders().Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestProcessAuditOnlyKinds(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()

	for i, kind := range []Kind{KindCallerIDStatus, KindCallCenterStatus} {
		body := fmt.Sprintf(`{"status":"approved","seq":%d}`, i)
		evt := Event{Kind: kind, Payload: json.RawMessage(body), ReceivedAt: time.Now().UTC()}
		require.NoError(t, p.Process(ctx, evt))
	}

	logs, err := st.WebhookLogs().List(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestProcessCallEndLogsOnly(t *testing.T) {
	p, st := testProcessor(t)
	ctx := context.Background()
	order := seedOrder(t, st)

	body, err := json.Marshal(EndCallPayload{
		AgentEmail: "agent@totostore.example",
		Number:     order.CustomerPhone,
		Status:     "completed",
		Duration:   73,
		Billing:    decimal.RequireFromString("1.25"),
		Payload:    order.ID,
	})
	require.NoError(t, err)
	require.NoError(t, p.Process(ctx, Event{Kind: KindCallEnd, Payload: body, ReceivedAt: time.Now().UTC()}))

	got, err := st.Orders().Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status, "call-end never mutates orders")
}
