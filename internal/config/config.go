// Package config holds the explicit runtime configuration for the storefront.
//
// Everything is read once at startup and injected into the services that need
// it; no ambient os.Getenv lookups inside business code.
package config

import "os"

// ManyDial groups the credentials and defaults for the voice-call gateway.
// An empty APIKey is allowed at load time: call dispatch degrades to a
// "Call Failed - No API Key" status instead of crashing.
type ManyDial struct {
	// APIKey is sent as the x-api-key header on every gateway request.
	APIKey string

	// CallerID is the registered business caller id used for outbound calls.
	CallerID string

	// ForwardNumber receives live calls when the customer asks for an agent.
	ForwardNumber string

	// BaseURL is the gateway portal root, e.g. https://api.manydial.com/v1/portal.
	BaseURL string

	// Language and Voice select the TTS voice for the scripted messages.
	Language string
	Voice    string
}

// Config is the full runtime configuration of the server.
type Config struct {
	// HTTPAddr is the listen address, e.g. ":8080".
	HTTPAddr string

	// DBPath is the SQLite database file path.
	DBPath string

	// PublicBaseURL is the externally reachable base URL of this server.
	// The gateway posts webhooks back to PublicBaseURL + /api/webhooks/...,
	// so it must be resolvable from the outside, not localhost.
	PublicBaseURL string

	ManyDial ManyDial
}

// Load builds a Config from environment variables with sensible defaults.
func Load() Config {
	return Config{
		HTTPAddr:      ":" + getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "./data/storefront.db"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		ManyDial: ManyDial{
			APIKey:        os.Getenv("MANYDIAL_API_KEY"),
			CallerID:      os.Getenv("MANYDIAL_CALLER_ID"),
			ForwardNumber: getEnv("MANYDIAL_FORWARD_NUMBER", "+8801743681683"),
			BaseURL:       getEnv("MANYDIAL_BASE_URL", "https://api.manydial.com/v1/portal"),
			Language:      getEnv("MANYDIAL_LANGUAGE", "bn-BD"),
			Voice:         getEnv("MANYDIAL_VOICE", "female"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
