package domain

import "time"

// WebhookLog is an append-only audit record of an inbound gateway webhook.
// There is no foreign key to Order: correlation happens at processing time,
// the log keeps the raw payload regardless of whether it matched anything.
type WebhookLog struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Payload    string    `json:"payload"`
	ReceivedAt time.Time `json:"receivedAt"`
}
