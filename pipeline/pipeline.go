// Package pipeline runs one search against one site end to end, and fans a
// search out across every registered site.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/shopscout/browser"
	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/site"
	"github.com/use-agent/shopscout/snapshot"
)

// DefaultSiteTimeout bounds one site's pipeline when none is configured.
const DefaultSiteTimeout = 3 * time.Minute

// Pipeline executes the extraction steps for a single site. It holds no
// per-search state, so one Pipeline serves any number of concurrent runs.
type Pipeline struct {
	launcher    browser.Launcher
	store       snapshot.Store
	siteTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithSiteTimeout sets the hard deadline for one site run.
func WithSiteTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.siteTimeout = d
		}
	}
}

// New creates a Pipeline. A nil store disables snapshots.
func New(launcher browser.Launcher, store snapshot.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		launcher:    launcher,
		store:       store,
		siteTimeout: DefaultSiteTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.store == nil {
		p.store = snapshot.Nop{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Run searches term on ext and returns the validated listings in page
// order.
//
// An invalid term fails with an INVALID_INPUT *models.ScrapeError before
// any browser starts. Every later failure is a *models.ExtractionError for
// ext, and no listings are returned with it. The session is closed exactly
// once on every path.
//
//  1. Validate term
//  2. Apply site deadline
//  3. Open session
//  4. Navigate to the search page
//  5. Settle
//  6. Submit search and wait for results
//  7. Extract raw records
//  8. Filter incomplete records
//  9. Save snapshot
func (p *Pipeline) Run(ctx context.Context, term string, ext site.Extractor) ([]models.Listing, error) {
	// ── 1. Validate ──────────────────────────────────────────────────
	term, err := models.ValidateTerm(term)
	if err != nil {
		return nil, err
	}

	id := ext.ID()
	log := p.logger.With("site", id)
	start := time.Now()

	// ── 2. Deadline ──────────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(ctx, p.siteTimeout)
	defer cancel()

	fail := func(step string, err error) ([]models.Listing, error) {
		cause := classify(ctx, err)
		log.Warn("site search failed",
			"step", step,
			"code", cause.Code,
			"error", err,
			"elapsed", time.Since(start),
		)
		return nil, models.NewExtractionError(id, cause)
	}

	// ── 3. Session ───────────────────────────────────────────────────
	sess, err := p.launcher.Open(ctx)
	if err != nil {
		return fail("open", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Debug("session close failed", "error", err)
		}
	}()

	// ── 4. Navigate ──────────────────────────────────────────────────
	log.Debug("navigating", "url", ext.SearchURL())
	if err := sess.Navigate(ctx, ext.SearchURL()); err != nil {
		return fail("navigate", err)
	}

	// ── 5. Settle ────────────────────────────────────────────────────
	if err := settle(ctx, sess, ext.Timing()); err != nil {
		return fail("settle", err)
	}

	// ── 6. Search ────────────────────────────────────────────────────
	if err := ext.SubmitSearch(ctx, sess, term); err != nil {
		return fail("submit", err)
	}
	if err := ext.WaitForResults(ctx, sess); err != nil {
		return fail("results", err)
	}

	// ── 7. Extract ───────────────────────────────────────────────────
	raw, err := ext.ExtractRaw(ctx, sess)
	if err != nil {
		return fail("extract", err)
	}

	// ── 8. Filter ────────────────────────────────────────────────────
	listings := FilterValid(raw)

	// ── 9. Snapshot ──────────────────────────────────────────────────
	if err := p.store.Save(ctx, id, listings); err != nil {
		log.Warn("snapshot save failed", "error", err)
	}

	log.Info("site search completed",
		"term", term,
		"raw", len(raw),
		"listings", len(listings),
		"elapsed", time.Since(start),
	)
	return listings, nil
}

// settle gives the landing page time to hydrate. A ReadySelector replaces
// the fixed delay when one is configured.
func settle(ctx context.Context, sess browser.Session, t site.Timing) error {
	if t.ReadySelector != "" {
		timeout := t.InputTimeout
		if timeout <= 0 {
			timeout = site.DefaultInputTimeout
		}
		return sess.WaitVisible(ctx, t.ReadySelector, timeout)
	}
	if t.SettleDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(t.SettleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// classify turns any step error into a ScrapeError. Bare context errors
// only come from the site deadline or the caller, so they map to a timeout.
func classify(ctx context.Context, err error) *models.ScrapeError {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.NewScrapeError(models.ErrCodeTimeout, "site deadline exceeded", err)
	}
	if errors.Is(err, context.Canceled) {
		return models.NewScrapeError(models.ErrCodeTimeout, "search canceled", err)
	}
	return models.AsScrapeError(err)
}
