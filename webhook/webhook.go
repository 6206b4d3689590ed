// Package webhook posts signed search events to client endpoints.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// EventSearchCompleted is sent once a multi-site search has finished.
const EventSearchCompleted = "search.completed"

// SignatureHeader carries "sha256=<hex>" of the body when a secret is set.
const SignatureHeader = "X-Shopscout-Signature"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string `json:"type"`
	SearchID  string `json:"search_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Notifier delivers events, retrying failed attempts in the background.
type Notifier struct {
	client *http.Client
	delays []time.Duration
	logger *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// WithRetryDelays replaces the wait before each attempt. The first entry
// is usually zero.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(n *Notifier) {
		if len(delays) > 0 {
			n.delays = delays
		}
	}
}

// WithHTTPClient sets the client used for delivery.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		n.client = c
	}
}

// NewNotifier creates a Notifier that tries four times: immediately, then
// after 1s, 5s and 30s.
func NewNotifier(opts ...Option) *Notifier {
	n := &Notifier{
		client: &http.Client{Timeout: 10 * time.Second},
		delays: []time.Duration{0, 1 * time.Second, 5 * time.Second, 30 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	return n
}

// Deliver sends event once and reports the outcome.
func (n *Notifier) Deliver(ctx context.Context, url, secret string, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Shopscout-Webhook/1.0")
	if secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+Sign(secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// DeliverAsync sends event in the background, retrying on failure.
// The returned channel is closed when delivery succeeds or gives up.
func (n *Notifier) DeliverAsync(url, secret string, event *Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		log := n.logger.With("url", url, "event", event.Type, "search_id", event.SearchID)

		for attempt, delay := range n.delays {
			if delay > 0 {
				time.Sleep(delay)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := n.Deliver(ctx, url, secret, event)
			cancel()
			if err == nil {
				log.Info("webhook delivered", "attempt", attempt+1)
				return
			}
			log.Warn("webhook delivery failed", "attempt", attempt+1, "error", err)
		}
		log.Error("webhook delivery exhausted all retries")
	}()
	return done
}
