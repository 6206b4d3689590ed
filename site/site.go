// Package site holds the per-storefront knowledge of how to search and
// where listings live in the rendered page.
package site

import (
	"context"
	"time"

	"github.com/use-agent/shopscout/browser"
	"github.com/use-agent/shopscout/models"
)

// Extractor drives one storefront through a browser session.
type Extractor interface {
	// ID is the stable site key used in results and snapshots.
	ID() string

	// Name is the human-readable storefront name.
	Name() string

	// SearchURL is the page the search starts from.
	SearchURL() string

	// Timing returns the site's waits.
	Timing() Timing

	// SubmitSearch waits for the search input, types term and submits.
	SubmitSearch(ctx context.Context, s browser.Session, term string) error

	// WaitForResults blocks until the results container is visible.
	WaitForResults(ctx context.Context, s browser.Session) error

	// ExtractRaw reads candidate records in document order.
	ExtractRaw(ctx context.Context, s browser.Session) ([]models.RawListing, error)
}

// Selectors locate the search box and listing fields. Title, Price and
// Image are resolved inside each Item match.
type Selectors struct {
	SearchInput string
	Results     string
	Item        string
	Title       string
	Price       string
	Image       string
	// ImageAttr is read from the Image match; defaults to "src".
	ImageAttr string
}

// Timing holds the waits used while driving a site.
type Timing struct {
	// SettleDelay is the fixed pause after the initial page load. It is
	// skipped when ReadySelector is set.
	SettleDelay time.Duration

	// ReadySelector, when non-empty, is polled until visible instead of
	// sleeping SettleDelay.
	ReadySelector string

	InputTimeout   time.Duration
	ResultsTimeout time.Duration
	KeyDelay       time.Duration

	// AwaitNavigation waits for the results page to load after Enter.
	AwaitNavigation bool
}

// Default waits, taken from how the storefronts behave with a cold profile.
const (
	DefaultSettleDelay    = 5 * time.Second
	DefaultInputTimeout   = 30 * time.Second
	DefaultResultsTimeout = 60 * time.Second
	DefaultKeyDelay       = 100 * time.Millisecond
)

func defaultTiming() Timing {
	return Timing{
		SettleDelay:    DefaultSettleDelay,
		InputTimeout:   DefaultInputTimeout,
		ResultsTimeout: DefaultResultsTimeout,
		KeyDelay:       DefaultKeyDelay,
	}
}
