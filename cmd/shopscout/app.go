package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/use-agent/shopscout/browser"
	"github.com/use-agent/shopscout/config"
	"github.com/use-agent/shopscout/pipeline"
	"github.com/use-agent/shopscout/site"
	"github.com/use-agent/shopscout/snapshot"
)

// app holds the services shared by serve and search.
type app struct {
	cfg      *config.Config
	launcher *browser.RodLauncher
	store    snapshot.Store
	registry *site.Registry
	runner   *pipeline.Runner
}

// newApp wires configuration into a ready runner.
func newApp(cfg *config.Config) (*app, error) {
	registry, err := site.FromConfig(cfg.Sites)
	if err != nil {
		return nil, fmt.Errorf("sites: %w", err)
	}

	store, err := snapshot.Open(cfg.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("snapshot store: %w", err)
	}

	logger := slog.Default()
	launcher := browser.NewRodLauncher(cfg.Browser, browser.WithLogger(logger))
	p := pipeline.New(launcher, store,
		pipeline.WithLogger(logger),
		pipeline.WithSiteTimeout(cfg.Pipeline.SiteTimeout),
	)
	runner := pipeline.NewRunner(p, registry,
		pipeline.WithRunnerLogger(logger),
		pipeline.WithConcurrency(cfg.Pipeline.Concurrency),
	)

	return &app{
		cfg:      cfg,
		launcher: launcher,
		store:    store,
		registry: registry,
		runner:   runner,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// initLogger configures slog from cfg, writing to w.
func initLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// loadConfig reads configuration and applies the global --verbose flag.
func loadConfig(verbose bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

var stderr io.Writer = os.Stderr
