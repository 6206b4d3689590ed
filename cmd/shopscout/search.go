package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/pipeline"
	"github.com/use-agent/shopscout/report"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>...",
		Short: "Search sites once and print the listings",
		Long: `Search runs one search without starting the HTTP server. All arguments
are joined into the search term.

Examples:
  # Search every site, JSON output
  shopscout search auriculares bluetooth

  # One site, Markdown tables
  shopscout search --site amazon --format markdown auriculares`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearchCmd,
	}

	cmd.Flags().StringP("site", "s", "", "Search only this site (default: all)")
	cmd.Flags().StringP("format", "f", report.FormatJSON, "Output format: json or markdown")
	cmd.Flags().DurationP("timeout", "t", 0, "Per-site deadline (overrides SHOPSCOUT_SITE_TIMEOUT)")

	return cmd
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	siteID, _ := cmd.Flags().GetString("site")
	format, _ := cmd.Flags().GetString("format")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	w, err := report.New(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(verbose)
	if err != nil {
		return err
	}
	if timeout > 0 {
		cfg.Pipeline.SiteTimeout = timeout
	}
	// stdout carries the report.
	initLogger(cfg.Log, stderr)

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resp, failed, err := search(ctx, a.runner, siteID, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if err := w.Write(resp); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if failed == len(resp.Sites) {
		return fmt.Errorf("all %d site(s) failed", failed)
	}
	return nil
}

// search runs one or all sites and returns the response plus the number
// of failed sites.
func search(ctx context.Context, runner *pipeline.Runner, siteID, term string) (*models.SearchResponse, int, error) {
	start := time.Now()

	var outcomes map[string]pipeline.Outcome
	if siteID != "" {
		out, err := runner.Run(ctx, siteID, term)
		if err != nil {
			return nil, 0, err
		}
		outcomes = map[string]pipeline.Outcome{siteID: out}
	} else {
		all, err := runner.RunAll(ctx, term)
		if err != nil {
			return nil, 0, err
		}
		outcomes = all
	}

	term, _ = models.ValidateTerm(term)
	resp, _ := report.NewSearchResponse(term, outcomes)
	elapsed := time.Since(start).Milliseconds()
	resp.Timing = models.TimingInfo{TotalMs: elapsed, SitesMs: elapsed}

	failed := 0
	for _, out := range outcomes {
		if !out.OK() {
			failed++
		}
	}
	return resp, failed, nil
}
