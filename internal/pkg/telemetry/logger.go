package telemetry

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5/middleware"
)

// ContextHandler is a custom slog.Handler that extracts the chi request ID
// from the context and adds it as an attribute to every log record.
type ContextHandler struct {
	slog.Handler
}

// Handle adds the request id attribute before calling the underlying handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		r.AddAttrs(slog.String("request_id", reqID))
	}
	return h.Handler.Handle(ctx, r)
}

// NewContextHandler returns a new slog.Handler that decorates logs with the
// request id.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

// InitLogger initialises the global slog logger with a JSON handler decorated
// with request context.
func InitLogger() {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(NewContextHandler(handler))
	slog.SetDefault(logger)
}
