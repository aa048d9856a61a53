package orders

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totostore/storefront/internal/config"
	"github.com/totostore/storefront/internal/domain"
	"github.com/totostore/storefront/internal/manydial"
	"github.com/totostore/storefront/internal/store"
	"github.com/totostore/storefront/internal/store/sqlite"
)

// stubDialer records dispatch requests and plays back a canned outcome.
type stubDialer struct {
	resp  *manydial.DispatchResponse
	err   error
	calls []manydial.DispatchRequest
}

func (d *stubDialer) DispatchCall(_ context.Context, req manydial.DispatchRequest) (*manydial.DispatchResponse, error) {
	d.calls = append(d.calls, req)
	if d.err != nil {
		return nil, d.err
	}
	return d.resp, nil
}

func testService(t *testing.T, dialer CallDispatcher) (*Service, *sqlite.Store) {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.Config{
		PublicBaseURL: "https://shop.example.com",
		ManyDial:      config.ManyDial{ForwardNumber: "+8801743681683"},
	}
	return NewService(st.Orders(), dialer, cfg), st
}

func checkoutArgs() (CustomerInfo, []NewItem, decimal.Decimal) {
	info := CustomerInfo{
		Name:            "Rahim Uddin",
		Email:           "rahim@example.com",
		Phone:           "+8801712345678",
		ShippingAddress: "House 12, Road 5, Dhanmondi, Dhaka",
	}
	items := []NewItem{
		{ProductID: 1, ProductName: "Headphones", Price: decimal.RequireFromString("300.00"), Quantity: 1},
		{ProductID: 2, ProductName: "Power Bank", Price: decimal.RequireFromString("100.00"), Quantity: 2},
	}
	// 500 items + 50 delivery fee, supplied by the client and trusted.
	return info, items, decimal.RequireFromString("550.00")
}

func TestCreateDispatchesConfirmationCall(t *testing.T) {
	dialer := &stubDialer{resp: &manydial.DispatchResponse{Success: true, Raw: `{"success":true}`}}
	svc, st := testService(t, dialer)
	ctx := context.Background()

	info, items, total := checkoutArgs()
	order, err := svc.Create(ctx, info, items, total)
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, CallInitiated, order.CallStatus)
	assert.Equal(t, order.ID, order.CallPayload)

	require.Len(t, dialer.calls, 1)
	call := dialer.calls[0]
	assert.Equal(t, order.ID, call.CallPayload)
	assert.Equal(t, "+8801712345678", call.Number)
	assert.Equal(t, "3", call.PerCallDuration)
	assert.Equal(t, "https://shop.example.com/api/webhooks/call-delivery", call.DeliveryHook)
	assert.Contains(t, call.Script.Welcome, "Rahim Uddin")
	assert.Contains(t, call.Script.Welcome, "550")
	assert.Equal(t, "+8801743681683", call.Script.ForwardNumber2)

	// Both writes landed.
	got, err := st.Orders().Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, CallInitiated, got.CallStatus)
	assert.Equal(t, order.ID, got.CallPayload)
	assert.Len(t, got.Items, 2)
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	dialer := &stubDialer{resp: &manydial.DispatchResponse{Success: true}}
	svc, _ := testService(t, dialer)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		info, items, total := checkoutArgs()
		order, err := svc.Create(ctx, info, items, total)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.False(t, seen[order.ID], "duplicate order id %s", order.ID)
		seen[order.ID] = true
	}
}

func TestCreateSurvivesGatewayUnreachable(t *testing.T) {
	dialer := &stubDialer{err: errors.New("dial tcp: connection refused")}
	svc, st := testService(t, dialer)
	ctx := context.Background()

	info, items, total := checkoutArgs()
	order, err := svc.Create(ctx, info, items, total)
	require.NoError(t, err, "order creation must not fail on call failure")

	got, err := st.Orders().Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, CallError, got.CallStatus)
	assert.Empty(t, got.CallPayload)
}

func TestCreateCallStatusMapping(t *testing.T) {
	tests := []struct {
		name        string
		dialer      *stubDialer
		wantStatus  string
		wantPayload bool
	}{
		{
			name:       "missing api key",
			dialer:     &stubDialer{err: manydial.ErrNoAPIKey},
			wantStatus: CallNoAPIKey,
		},
		{
			name:       "missing caller id",
			dialer:     &stubDialer{err: manydial.ErrNoCallerID},
			wantStatus: CallNoCallerID,
		},
		{
			name:       "malformed gateway response",
			dialer:     &stubDialer{err: manydial.ErrBadResponse},
			wantStatus: CallError,
		},
		{
			// The gateway saw the dispatch, so the payload echo is kept
			// even though it refused.
			name:        "parsed rejection keeps raw body and payload",
			dialer:      &stubDialer{resp: &manydial.DispatchResponse{Success: false, Raw: `{"success":false,"message":"no balance"}`}},
			wantStatus:  `Call Failed: {"success":false,"message":"no balance"}`,
			wantPayload: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := testService(t, tt.dialer)
			info, items, total := checkoutArgs()

			order, err := svc.Create(context.Background(), info, items, total)
			require.NoError(t, err)

			got, err := st.Orders().Get(context.Background(), order.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.CallStatus)
			assert.Equal(t, domain.StatusPending, got.Status)
			if tt.wantPayload {
				assert.Equal(t, order.ID, got.CallPayload)
			} else {
				assert.Empty(t, got.CallPayload)
			}
		})
	}
}

func TestResendCallOverwritesCallStatus(t *testing.T) {
	dialer := &stubDialer{err: errors.New("unreachable")}
	svc, _ := testService(t, dialer)
	ctx := context.Background()

	info, items, total := checkoutArgs()
	order, err := svc.Create(ctx, info, items, total)
	require.NoError(t, err)
	require.Equal(t, CallError, order.CallStatus)

	// Gateway recovers; resending flips the status.
	dialer.err = nil
	dialer.resp = &manydial.DispatchResponse{Success: true}

	resent, err := svc.ResendCall(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, CallInitiated, resent.CallStatus)
	assert.Equal(t, order.ID, resent.CallPayload)
	assert.Len(t, dialer.calls, 2)
}

func TestResendCallNotFound(t *testing.T) {
	svc, _ := testService(t, &stubDialer{resp: &manydial.DispatchResponse{Success: true}})

	_, err := svc.ResendCall(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateStatusVerbatim(t *testing.T) {
	svc, _ := testService(t, &stubDialer{resp: &manydial.DispatchResponse{Success: true}})
	ctx := context.Background()

	info, items, total := checkoutArgs()
	order, err := svc.Create(ctx, info, items, total)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, order.ID, "Shipped")
	require.NoError(t, err)
	assert.Equal(t, "Shipped", updated.Status)
}
