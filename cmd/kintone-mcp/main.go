package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/usestring/kintone-mcp/internal/config"
	"github.com/usestring/kintone-mcp/internal/registry"
	"github.com/usestring/kintone-mcp/pkg/client"
	"github.com/usestring/kintone-mcp/pkg/mcpsrv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Connection settings come from the environment:
	// - KINTONE_SUBDOMAIN: "example" or a full host ending in .com
	// - KINTONE_USERNAME/KINTONE_PASSWORD or KINTONE_AUTH: client credential
	// - KINTONE_APPS_FILE: app registry (default apps.yaml)
	// - LOG_LEVEL, LOG_FILE, LOG_FORMAT, etc. (see internal/config)
	cfg := config.Load()

	apps, err := registry.Load(cfg.AppsFile)
	if err != nil {
		slog.Error("failed to load app registry", "file", cfg.AppsFile, "error", err)
		os.Exit(1)
	}
	if cfg.Subdomain == "" {
		slog.Warn("KINTONE_SUBDOMAIN is not set; every record call will fail with a configuration error")
	}

	kc := client.New(cfg.Subdomain, apps, cfg.ClientOptions()...)

	server, err := mcpsrv.NewServer(kc)
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	slog.Info("starting kintone MCP server on stdio",
		"subdomain", cfg.Subdomain,
		"apps", len(apps),
		"credential", kc.Credential().String(),
	)
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
