// Package browser owns headless browser sessions: one isolated Chromium
// process per session, driven through go-rod.
package browser

import (
	"context"
	"time"
)

// Session is one isolated browser context used for exactly one search
// against one site. Calls on a Session must be sequential.
type Session interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// WaitVisible blocks until an element matching selector is visible or
	// timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// TypeAndSubmit types text into the element matching selector and
	// presses Enter.
	TypeAndSubmit(ctx context.Context, selector, text string, opts SubmitOptions) error

	// HTML returns the rendered DOM of the current page.
	HTML(ctx context.Context) (string, error)

	// Close releases the session. It is idempotent.
	Close() error
}

// Launcher opens fresh sessions.
type Launcher interface {
	Open(ctx context.Context) (Session, error)
}

// SubmitOptions tunes TypeAndSubmit.
type SubmitOptions struct {
	// Timeout bounds the wait for the input element and, when
	// AwaitNavigation is set, for the navigation that follows Enter.
	Timeout time.Duration

	// KeyDelay is the pause between typed characters.
	KeyDelay time.Duration

	// AwaitNavigation waits for DOMContentLoaded of the page loaded by the
	// submission.
	AwaitNavigation bool
}

const defaultSubmitTimeout = 30 * time.Second

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
