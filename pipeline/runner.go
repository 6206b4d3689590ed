package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/site"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one site in a search: either listings or an
// error, never both.
type Outcome struct {
	Listings []models.Listing
	Err      *models.ExtractionError
}

// OK reports whether the site succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Runner fans a search out to every registered site.
type Runner struct {
	pipeline    *Pipeline
	registry    *site.Registry
	concurrency int
	logger      *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the fan-out.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConcurrency caps the number of sites searched at once. Zero or less
// runs every site in parallel.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		r.concurrency = n
	}
}

// NewRunner creates a Runner over the sites in registry.
func NewRunner(p *Pipeline, registry *site.Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		pipeline: p,
		registry: registry,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Sites returns the registered site keys in order.
func (r *Runner) Sites() []string {
	return r.registry.IDs()
}

// Registry returns the sites this runner searches.
func (r *Runner) Registry() *site.Registry {
	return r.registry
}

// RunAll searches term on every site concurrently and returns one Outcome
// per site. Sites are independent: a failure or timeout
// on one never cancels or alters another.
//
// The only error returned is INVALID_INPUT for a blank term, in which case
// no browser is started.
func (r *Runner) RunAll(ctx context.Context, term string) (map[string]Outcome, error) {
	term, err := models.ValidateTerm(term)
	if err != nil {
		return nil, err
	}

	exts := r.registry.All()
	r.logger.Info("starting search",
		"term", term,
		"sites", len(exts),
		"concurrency", r.concurrency,
	)
	start := time.Now()

	results := make(map[string]Outcome, len(exts))
	var mu sync.Mutex

	// A plain Group, not WithContext: one site failing must not cancel
	// the others.
	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}

	for _, ext := range exts {
		g.Go(func() error {
			out := r.run(ctx, term, ext)

			mu.Lock()
			results[ext.ID()] = out
			mu.Unlock()

			// Failures live in the Outcome.
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, out := range results {
		if !out.OK() {
			failed++
		}
	}
	r.logger.Info("search complete",
		"term", term,
		"sites", len(exts),
		"failed", failed,
		"elapsed", time.Since(start),
	)

	return results, nil
}

// Run searches term on a single site. It returns a NOT_FOUND error for an
// unknown site and INVALID_INPUT for a blank term; site failures are
// reported in the Outcome.
func (r *Runner) Run(ctx context.Context, siteID, term string) (Outcome, error) {
	ext, ok := r.registry.Get(siteID)
	if !ok {
		return Outcome{}, models.NewScrapeError(models.ErrCodeNotFound,
			"unknown site: "+siteID, site.ErrUnknownSite)
	}
	term, err := models.ValidateTerm(term)
	if err != nil {
		return Outcome{}, err
	}
	return r.run(ctx, term, ext), nil
}

func (r *Runner) run(ctx context.Context, term string, ext site.Extractor) Outcome {
	listings, err := r.pipeline.Run(ctx, term, ext)
	if err == nil {
		return Outcome{Listings: listings}
	}

	var xe *models.ExtractionError
	if !errors.As(err, &xe) {
		xe = models.NewExtractionError(ext.ID(), models.AsScrapeError(err))
	}
	return Outcome{Err: xe}
}
