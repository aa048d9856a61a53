package manydial

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totostore/storefront/internal/config"
)

func testConfig(baseURL string) config.ManyDial {
	return config.ManyDial{
		APIKey:        "test-key",
		CallerID:      "09611223344",
		ForwardNumber: "+8801743681683",
		BaseURL:       baseURL,
		Language:      "bn-BD",
		Voice:         "female",
	}
}

func dispatchRequest() DispatchRequest {
	return DispatchRequest{
		CallPayload:     "order-123",
		Number:          "+8801712345678",
		PerCallDuration: "3",
		Script:          ConfirmationScript("Rahim", decimal.RequireFromString("550.00"), "+8801743681683", "", ""),
		Buttons:         ConfirmationButtons(),
		DeliveryHook:    "http://localhost:8080/api/webhooks/call-delivery",
	}
}

func TestDispatchCallSendsMultipartForm(t *testing.T) {
	var gotForm map[string]string
	var gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotForm[k] = v[0]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "statusCode": 200, "message": "queued"})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client())
	resp, err := c.DispatchCall(context.Background(), dispatchRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "queued", resp.Message)
	assert.Equal(t, "test-key", gotAPIKey)

	assert.Equal(t, "order-123", gotForm["callPayload"])
	assert.Equal(t, "09611223344", gotForm["callerId"])
	assert.Equal(t, "3", gotForm["perCallDuration"])
	assert.Equal(t, "+8801712345678", gotForm["number"])
	assert.Equal(t, "http://localhost:8080/api/webhooks/call-delivery", gotForm["deliveryHook"])
	assert.Equal(t, "bn-BD", gotForm["language"])
	assert.Equal(t, "female", gotForm["voice"])

	// messages and buttons are JSON text fields.
	var script Script
	require.NoError(t, json.Unmarshal([]byte(gotForm["messages"]), &script))
	assert.Equal(t, "2", script.Repeat)
	assert.Equal(t, "+8801743681683", script.ForwardNumber2)
	assert.Contains(t, script.Welcome, "Rahim")
	assert.Contains(t, script.Welcome, "550")

	var buttons []Button
	require.NoError(t, json.Unmarshal([]byte(gotForm["buttons"]), &buttons))
	require.Len(t, buttons, 2)
	assert.Equal(t, "1", buttons[0].Key)
	assert.Equal(t, "2", buttons[1].Key)
}

func TestDispatchCallGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "statusCode": 402, "message": "insufficient balance"})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client())
	resp, err := c.DispatchCall(context.Background(), dispatchRequest())
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, "insufficient balance", resp.Message)
	assert.Contains(t, resp.Raw, `"success":false`)
}

func TestDispatchCallMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client())
	_, err := c.DispatchCall(context.Background(), dispatchRequest())
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestDispatchCallTransportError(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(testConfig(srv.URL), nil)
	_, err := c.DispatchCall(context.Background(), dispatchRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadResponse)
}

func TestDispatchCallMissingConfig(t *testing.T) {
	cfg := testConfig("http://example.invalid")
	cfg.APIKey = ""
	c := NewClient(cfg, nil)
	_, err := c.DispatchCall(context.Background(), dispatchRequest())
	assert.ErrorIs(t, err, ErrNoAPIKey)

	cfg = testConfig("http://example.invalid")
	cfg.CallerID = ""
	c = NewClient(cfg, nil)
	_, err = c.DispatchCall(context.Background(), dispatchRequest())
	assert.ErrorIs(t, err, ErrNoCallerID)
}

func TestDispatchCallCallerIDOverride(t *testing.T) {
	var gotCallerID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotCallerID = r.MultipartForm.Value["callerId"][0]
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client())
	req := dispatchRequest()
	req.CallerID = "09600000000"
	_, err := c.DispatchCall(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "09600000000", gotCallerID)
}

func TestDirectScriptForwardsOnKeyOne(t *testing.T) {
	s := DirectScript("", "+8801743681683")
	assert.NotEmpty(t, s.Welcome)
	assert.Equal(t, "+8801743681683", s.ForwardNumber1)
	assert.Empty(t, s.ForwardNumber2)

	s = DirectScript("custom announcement", "+8801743681683")
	assert.Equal(t, "custom announcement", s.Welcome)

	buttons := DirectButtons()
	require.Len(t, buttons, 1)
	assert.Equal(t, "1", buttons[0].Key)
	assert.Equal(t, "Connect", buttons[0].Value)
}

func TestConfirmationScriptOverrides(t *testing.T) {
	s := ConfirmationScript("Karim", decimal.RequireFromString("1200.00"), "+880170000000", "hello there", "thanks")
	assert.Equal(t, "hello there", s.Welcome)
	assert.Equal(t, "thanks", s.MenuMessage1)
	assert.Equal(t, "+880170000000", s.ForwardNumber2)
}
