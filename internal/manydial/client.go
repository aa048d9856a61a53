// Package manydial is the client for the ManyDial voice-call gateway.
//
// The gateway exposes one dispatch endpoint that accepts a multipart form
// (phone number, keyed voice script, delivery webhook URL) and later reports
// the call outcome asynchronously to that webhook. The immediate HTTP
// response only acknowledges dispatch.
package manydial

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/totostore/storefront/internal/config"
)

var (
	// ErrNoAPIKey means the gateway API key is not configured.
	ErrNoAPIKey = errors.New("manydial: api key not configured")

	// ErrNoCallerID means no registered caller id is configured.
	ErrNoCallerID = errors.New("manydial: caller id not configured")

	// ErrBadResponse means the gateway answered with a body that does not
	// match the response schema. It is a distinct error kind, not an
	// implicit dispatch failure.
	ErrBadResponse = errors.New("manydial: malformed gateway response")
)

// DispatchRequest describes one outbound automated call.
type DispatchRequest struct {
	// CallPayload is echoed back verbatim in the delivery webhook and is
	// used there as the correlation id (the order id, usually).
	CallPayload string

	// Number is the E.164-like destination phone number.
	Number string

	// PerCallDuration is the call duration budget in gateway units.
	PerCallDuration string

	// Script is the keyed voice script played to the recipient.
	Script Script

	// Buttons declares which DTMF keys the script reacts to.
	Buttons []Button

	// DeliveryHook is the URL the gateway posts the outcome back to.
	DeliveryHook string

	// CallerID overrides the configured caller id when non-empty.
	CallerID string
}

// DispatchResponse is the gateway's immediate acknowledgment, parsed strictly.
type DispatchResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`

	// Raw is the unparsed response body, kept for call-status messages.
	Raw string `json:"-"`
}

// Client talks to the ManyDial portal API.
type Client struct {
	httpClient *http.Client
	cfg        config.ManyDial
}

// NewClient builds a gateway client. httpClient may be nil, in which case
// http.DefaultClient is used (transport-default timeouts, as the rest of the
// system assumes).
func NewClient(cfg config.ManyDial, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// DispatchCall submits one automated call. The returned response reflects
// only the dispatch acknowledgment, never the eventual call outcome.
func (c *Client) DispatchCall(ctx context.Context, req DispatchRequest) (*DispatchResponse, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	callerID := req.CallerID
	if callerID == "" {
		callerID = c.cfg.CallerID
	}
	if callerID == "" {
		return nil, ErrNoCallerID
	}

	messages, err := json.Marshal(req.Script)
	if err != nil {
		return nil, fmt.Errorf("manydial: marshal script: %w", err)
	}
	buttons, err := json.Marshal(req.Buttons)
	if err != nil {
		return nil, fmt.Errorf("manydial: marshal buttons: %w", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := []struct{ name, value string }{
		{"callPayload", req.CallPayload},
		{"callerId", callerID},
		{"perCallDuration", req.PerCallDuration},
		{"messages", string(messages)},
		{"number", req.Number},
		{"buttons", string(buttons)},
		{"deliveryHook", req.DeliveryHook},
		{"language", c.cfg.Language},
		{"voice", c.cfg.Voice},
	}
	for _, f := range fields {
		if err := form.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("manydial: build form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("manydial: build form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/call/dispatch", &body)
	if err != nil {
		return nil, fmt.Errorf("manydial: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("manydial: dispatch call to %s: %w", req.Number, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("manydial: read dispatch response: %w", err)
	}

	var resp DispatchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadResponse, truncate(string(raw), 200))
	}
	resp.Raw = string(raw)
	return &resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
