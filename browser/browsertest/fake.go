// Package browsertest provides scripted browser sessions for tests.
package browsertest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/use-agent/shopscout/browser"
	"github.com/use-agent/shopscout/models"
)

// Call records one method invocation on a Session.
type Call struct {
	Method   string
	Arg      string
	Text     string
	Timeout  time.Duration
	Navigate bool
}

// Session is a scripted browser.Session. A zero Session succeeds at every
// step and returns an empty document. Set the Err fields to inject
// failures; set Block to make waits hang until the context ends.
type Session struct {
	Page string

	NavigateErr error
	WaitErr     error
	SubmitErr   error
	HTMLErr     error

	// Block makes WaitVisible wait for the context instead of returning.
	Block bool

	mu     sync.Mutex
	calls  []Call
	closes atomic.Int32
}

var _ browser.Session = (*Session)(nil)

func (s *Session) record(c Call) {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()
}

// Calls returns the recorded invocations in order.
func (s *Session) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Closes reports how many times Close was called.
func (s *Session) Closes() int { return int(s.closes.Load()) }

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.record(Call{Method: "Navigate", Arg: url})
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.NavigateErr
}

func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	s.record(Call{Method: "WaitVisible", Arg: selector, Timeout: timeout})
	if s.Block {
		wctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		<-wctx.Done()
		if s.WaitErr != nil {
			return s.WaitErr
		}
		return models.NewScrapeError(models.ErrCodeTimeout,
			"element "+selector+" not visible", wctx.Err())
	}
	return s.WaitErr
}

func (s *Session) TypeAndSubmit(ctx context.Context, selector, text string, opts browser.SubmitOptions) error {
	s.record(Call{
		Method:   "TypeAndSubmit",
		Arg:      selector,
		Text:     text,
		Timeout:  opts.Timeout,
		Navigate: opts.AwaitNavigation,
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.SubmitErr
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	s.record(Call{Method: "HTML"})
	if s.HTMLErr != nil {
		return "", s.HTMLErr
	}
	return s.Page, nil
}

func (s *Session) Close() error {
	s.closes.Add(1)
	return nil
}

// Launcher hands out sessions built by New. It counts opens so tests can
// assert that no browser was started.
type Launcher struct {
	// New builds the session for each Open. Nil means an empty Session.
	New func() *Session

	// OpenErr fails every Open.
	OpenErr error

	mu       sync.Mutex
	sessions []*Session
}

var _ browser.Launcher = (*Launcher)(nil)

func (l *Launcher) Open(ctx context.Context) (browser.Session, error) {
	if l.OpenErr != nil {
		return nil, l.OpenErr
	}
	s := &Session{}
	if l.New != nil {
		s = l.New()
	}
	l.mu.Lock()
	l.sessions = append(l.sessions, s)
	l.mu.Unlock()
	return s, nil
}

// Sessions returns every session handed out so far.
func (l *Launcher) Sessions() []*Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Session(nil), l.sessions...)
}

// Opens reports how many sessions were handed out.
func (l *Launcher) Opens() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}
