package site

import (
	"context"

	"github.com/use-agent/shopscout/browser"
	"github.com/use-agent/shopscout/models"
)

// Profile is the data that fully describes a site. All built-in sites are
// profiles run by the same extractor.
type Profile struct {
	ID        string
	Name      string
	SearchURL string
	Selectors Selectors
	Timing    Timing
}

// profileExtractor implements Extractor from a Profile.
type profileExtractor struct {
	p Profile
}

// New returns the Extractor for p.
func New(p Profile) Extractor {
	if p.Selectors.ImageAttr == "" {
		p.Selectors.ImageAttr = "src"
	}
	return &profileExtractor{p: p}
}

func (e *profileExtractor) ID() string        { return e.p.ID }
func (e *profileExtractor) SearchURL() string { return e.p.SearchURL }

func (e *profileExtractor) Name() string {
	if e.p.Name == "" {
		return e.p.ID
	}
	return e.p.Name
}

func (e *profileExtractor) Timing() Timing { return e.p.Timing }

func (e *profileExtractor) SubmitSearch(ctx context.Context, s browser.Session, term string) error {
	t := e.p.Timing
	if err := s.WaitVisible(ctx, e.p.Selectors.SearchInput, t.InputTimeout); err != nil {
		return err
	}
	return s.TypeAndSubmit(ctx, e.p.Selectors.SearchInput, term, browser.SubmitOptions{
		Timeout:         t.ResultsTimeout,
		KeyDelay:        t.KeyDelay,
		AwaitNavigation: t.AwaitNavigation,
	})
}

func (e *profileExtractor) WaitForResults(ctx context.Context, s browser.Session) error {
	if e.p.Selectors.Results == "" {
		return nil
	}
	return s.WaitVisible(ctx, e.p.Selectors.Results, e.p.Timing.ResultsTimeout)
}

func (e *profileExtractor) ExtractRaw(ctx context.Context, s browser.Session) ([]models.RawListing, error) {
	page, err := s.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return ParseListings(page, e.p.SearchURL, e.p.Selectors)
}
