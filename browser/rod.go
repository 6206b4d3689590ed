package browser

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/shopscout/config"
	"github.com/use-agent/shopscout/models"
	"github.com/ysmood/gson"
)

// RodLauncher starts one dedicated Chromium process per session, so no
// cookies, storage or cache leak between searches. It is safe for
// concurrent use.
type RodLauncher struct {
	cfg    config.BrowserConfig
	rules  hijackRules
	slots  chan struct{}
	active atomic.Int32
	logger *slog.Logger
}

// Option configures a RodLauncher.
type Option func(*RodLauncher)

// WithLogger sets the logger used for session lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *RodLauncher) {
		l.logger = logger
	}
}

// NewRodLauncher creates a launcher that allows at most cfg.MaxSessions
// live sessions.
func NewRodLauncher(cfg config.BrowserConfig, opts ...Option) *RodLauncher {
	maxSessions := cfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = 1
	}
	l := &RodLauncher{
		cfg:   cfg,
		rules: newHijackRules(cfg.BlockedResourceTypes, cfg.BlockAds),
		slots: make(chan struct{}, maxSessions),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Stats returns a snapshot of the session limiter.
func (l *RodLauncher) Stats() models.SessionStats {
	return models.SessionStats{
		MaxSessions:    cap(l.slots),
		ActiveSessions: int(l.active.Load()),
	}
}

// Open waits for a free slot, then launches and connects a new browser.
func (l *RodLauncher) Open(ctx context.Context) (Session, error) {
	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, models.NewScrapeError(models.ErrCodeLaunch,
			"no browser slot became free", ctx.Err())
	}

	s, err := l.launch(ctx)
	if err != nil {
		<-l.slots
		return nil, err
	}
	l.active.Add(1)
	return s, nil
}

// launch runs the numbered session setup. Every failure path tears down
// whatever was started before it. ctx bounds the Chromium start, including
// a first-run browser download.
//
//  1. Launch Chromium with stealth flags
//  2. Connect over CDP
//  3. Open the page
//  4. Inject stealth JS (before any navigation)
//  5. Extra headers and user agent
//  6. Mount the request filter
func (l *RodLauncher) launch(ctx context.Context) (*rodSession, error) {
	// ── 1. Launch ────────────────────────────────────────────────────
	ln := launcher.New().
		Context(ctx).
		Headless(l.cfg.Headless).
		NoSandbox(l.cfg.NoSandbox)
	if l.cfg.BrowserBin != "" {
		ln = ln.Bin(l.cfg.BrowserBin)
	}
	if l.cfg.Proxy != "" {
		ln = ln.Proxy(l.cfg.Proxy)
	}
	ln.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	ln.Delete(flags.Flag("enable-automation"))
	ln.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	ln.Set(flags.Flag("disable-popup-blocking"))
	ln.Set(flags.Flag("disable-renderer-backgrounding"))
	ln.Set(flags.Flag("disable-background-timer-throttling"))
	ln.Set(flags.Flag("disable-dev-shm-usage"))
	ln.Set(flags.Flag("disable-extensions"))
	ln.Set(flags.Flag("no-first-run"))

	controlURL, err := ln.Launch()
	if err != nil {
		ln.Kill()
		ln.Cleanup()
		return nil, models.NewScrapeError(models.ErrCodeLaunch, "failed to launch browser", err)
	}

	// ── 2. Connect ───────────────────────────────────────────────────
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		ln.Kill()
		ln.Cleanup()
		return nil, models.NewScrapeError(models.ErrCodeLaunch, "failed to connect to browser", err)
	}

	// ── 3. Page ──────────────────────────────────────────────────────
	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		ln.Kill()
		ln.Cleanup()
		return nil, models.NewScrapeError(models.ErrCodeLaunch, "failed to open page", err)
	}

	// ── 4. Stealth ───────────────────────────────────────────────────
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		l.logger.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}

	// ── 5. Headers ───────────────────────────────────────────────────
	if l.cfg.AcceptLanguage != "" {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{"Accept-Language": gson.New(l.cfg.AcceptLanguage)},
		}.Call(page)
	}
	if l.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      l.cfg.UserAgent,
			AcceptLanguage: l.cfg.AcceptLanguage,
		}); err != nil {
			l.logger.Warn("user agent override failed", "error", err)
		}
	}

	// ── 6. Request filter ────────────────────────────────────────────
	router := mountHijack(page, l.rules)

	l.logger.Debug("browser session opened", "controlURL", controlURL)

	return &rodSession{
		launcher: ln,
		browser:  b,
		page:     page,
		router:   router,
		release:  func() { l.active.Add(-1); <-l.slots },
		logger:   l.logger,
	}, nil
}

// rodSession is a Session backed by its own Chromium process.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter
	release  func()
	logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return categorizeError(err, "navigation to "+url+" failed")
	}
	if err := p.WaitLoad(); err != nil {
		return categorizeError(err, "page "+url+" did not finish loading")
	}
	return nil
}

func (s *rodSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := s.page.Context(wctx)
	el, err := p.Element(selector)
	if err != nil {
		return waitError(err, selector, timeout)
	}
	if err := el.WaitVisible(); err != nil {
		return waitError(err, selector, timeout)
	}
	return nil
}

func (s *rodSession) TypeAndSubmit(ctx context.Context, selector, text string, opts SubmitOptions) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := s.page.Context(wctx)
	el, err := p.Element(selector)
	if err != nil {
		return waitError(err, selector, timeout)
	}
	if err := el.Focus(); err != nil {
		return models.NewScrapeError(models.ErrCodeExtraction, "failed to focus search input", err)
	}

	for _, r := range text {
		if err := p.InsertText(string(r)); err != nil {
			return models.NewScrapeError(models.ErrCodeExtraction, "failed to type search term", err)
		}
		if err := sleep(wctx, opts.KeyDelay); err != nil {
			return waitError(err, selector, timeout)
		}
	}

	// The navigation listener must exist before Enter is pressed, or a fast
	// page load is missed.
	var waitNav func()
	if opts.AwaitNavigation {
		waitNav = p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	}

	if err := p.Keyboard.Type(input.Enter); err != nil {
		return models.NewScrapeError(models.ErrCodeExtraction, "failed to submit search", err)
	}

	if waitNav != nil {
		waitNav()
		if err := wctx.Err(); err != nil {
			return categorizeError(err, "results page did not load")
		}
	}
	return nil
}

func (s *rodSession) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeExtraction, "failed to read page HTML", err)
	}
	return html, nil
}

// Close stops the request filter, closes the browser and kills its process.
// The cleanup uses the original page reference, so it succeeds even after
// the caller's context has expired.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		defer s.release()

		if s.router != nil {
			_ = s.router.Stop()
		}
		if err := s.page.Close(); err != nil {
			s.logger.Debug("page close failed", "error", err)
		}
		s.closeErr = s.browser.Close()
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.logger.Debug("browser session closed")
	})
	return s.closeErr
}
