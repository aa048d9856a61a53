package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/totostore/storefront/internal/admin"
	"github.com/totostore/storefront/internal/config"
	"github.com/totostore/storefront/internal/httpx"
	"github.com/totostore/storefront/internal/manydial"
	"github.com/totostore/storefront/internal/orders"
	"github.com/totostore/storefront/internal/pkg/telemetry"
	"github.com/totostore/storefront/internal/store/sqlite"
	"github.com/totostore/storefront/internal/webhooks"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		slog.Error("failed to create data directory", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	st, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Seed(ctx); err != nil {
		slog.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}

	dialer := manydial.NewClient(cfg.ManyDial, nil)
	orderSvc := orders.NewService(st.Orders(), dialer, cfg)
	adminSvc := admin.NewService(st.Orders(), st.Products(), dialer, cfg)
	processor := webhooks.NewProcessor(st.WebhookLogs(), st.Orders())

	handler := httpx.NewHandler(st.Products(), orderSvc, adminSvc, processor, st.WebhookLogs())
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpx.NewRouter(handler),
	}

	go func() {
		slog.Info("storefront running", "addr", cfg.HTTPAddr, "db", cfg.DBPath,
			"gateway_configured", cfg.ManyDial.APIKey != "")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}
