package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/shopscout/api"
	"github.com/use-agent/shopscout/cache"
	"github.com/use-agent/shopscout/webhook"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve starts the HTTP API:

  POST /api/v1/search               search every site
  POST /api/v1/sites/:site/search   search one site
  GET  /api/v1/snapshots/:site      last saved listings of a site
  GET  /api/v1/sites                registered sites
  GET  /api/v1/health               liveness and session usage
  POST /buscar/:site                {"producto": "..."} → {"resultados": [...]}`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
	cmd.Flags().IntP("port", "p", 0, "Listen port (overrides SHOPSCOUT_PORT)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	port, _ := cmd.Flags().GetInt("port")

	// ── 1. Load configuration ───────────────────────────────────────
	cfg, err := loadConfig(verbose)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log, os.Stdout)
	slog.Info("shopscout starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"maxSessions", cfg.Browser.MaxSessions,
		"snapshots", cfg.Snapshot.Backend,
	)

	// ── 3. Wire services ────────────────────────────────────────────
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	cc := cache.New(cfg.Cache.MaxEntries)
	defer cc.Close()

	// ── 4. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(cfg, api.Deps{
		Runner:   a.runner,
		Store:    a.store,
		Cache:    cc,
		Notifier: webhook.NewNotifier(),
		Sessions: a.launcher,
	}, time.Now())

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr, "sites", a.registry.IDs())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	}

	// Searches can take minutes; give in-flight ones a bounded grace period.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("shopscout stopped")
	return nil
}
