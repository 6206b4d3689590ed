package site

import (
	"errors"
	"fmt"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/shopscout/config"
)

var (
	// ErrUnknownSite is returned for a site key with no extractor.
	ErrUnknownSite = errors.New("unknown site")
	// ErrInvalidSelector is returned when an override is not valid CSS.
	ErrInvalidSelector = errors.New("invalid selector")
	// ErrDuplicateSite is returned when two extractors share an ID.
	ErrDuplicateSite = errors.New("duplicate site")
)

// Registry is an ordered set of extractors keyed by ID.
type Registry struct {
	order []string
	byID  map[string]Extractor
}

// NewRegistry registers exts in order.
func NewRegistry(exts ...Extractor) (*Registry, error) {
	r := &Registry{byID: make(map[string]Extractor, len(exts))}
	for _, e := range exts {
		if _, ok := r.byID[e.ID()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSite, e.ID())
		}
		r.order = append(r.order, e.ID())
		r.byID[e.ID()] = e
	}
	return r, nil
}

// Defaults returns the built-in profiles in their canonical order.
func Defaults() []Profile {
	return []Profile{AliExpress(), Amazon()}
}

// DefaultRegistry registers every built-in site.
func DefaultRegistry() *Registry {
	r, _ := FromConfig(nil)
	return r
}

// FromConfig builds the registry from the built-in profiles with sf
// applied on top. A nil sf yields the defaults.
func FromConfig(sf *config.SitesFile) (*Registry, error) {
	profiles := Defaults()

	if sf != nil {
		known := make(map[string]struct{}, len(profiles))
		for _, p := range profiles {
			known[p.ID] = struct{}{}
		}
		for id := range sf.Sites {
			if _, ok := known[id]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownSite, id)
			}
		}
	}

	exts := make([]Extractor, 0, len(profiles))
	for _, p := range profiles {
		if sf != nil {
			ov, ok := sf.Sites[p.ID]
			if ok && ov.Disabled {
				continue
			}
			if ok {
				p = applyOverride(p, ov)
			}
		}
		if err := validateProfile(p); err != nil {
			return nil, err
		}
		exts = append(exts, New(p))
	}
	return NewRegistry(exts...)
}

// Get returns the extractor for id.
func (r *Registry) Get(id string) (Extractor, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// IDs returns site keys in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// All returns extractors in registration order.
func (r *Registry) All() []Extractor {
	out := make([]Extractor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered sites.
func (r *Registry) Len() int { return len(r.order) }

func applyOverride(p Profile, ov config.SiteOverride) Profile {
	if ov.SearchURL != "" {
		p.SearchURL = ov.SearchURL
	}

	s := ov.Selectors
	setString(&p.Selectors.SearchInput, s.SearchInput)
	setString(&p.Selectors.Results, s.Results)
	setString(&p.Selectors.Item, s.Item)
	setString(&p.Selectors.Title, s.Title)
	setString(&p.Selectors.Price, s.Price)
	setString(&p.Selectors.Image, s.Image)
	setString(&p.Selectors.ImageAttr, s.ImageAttr)

	t := ov.Timing
	setDuration(&p.Timing.SettleDelay, t.SettleDelay)
	setString(&p.Timing.ReadySelector, t.ReadySelector)
	setDuration(&p.Timing.InputTimeout, t.InputTimeout)
	setDuration(&p.Timing.ResultsTimeout, t.ResultsTimeout)
	setDuration(&p.Timing.KeyDelay, t.KeyDelay)
	if t.AwaitNavigation != nil {
		p.Timing.AwaitNavigation = *t.AwaitNavigation
	}
	return p
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v config.Duration) {
	if v > 0 {
		*dst = time.Duration(v)
	}
}

// validateProfile checks that every selector compiles. Item, Title, Price
// and Image are required; Results and ReadySelector may be empty.
func validateProfile(p Profile) error {
	required := map[string]string{
		"search_input": p.Selectors.SearchInput,
		"item":         p.Selectors.Item,
		"title":        p.Selectors.Title,
		"price":        p.Selectors.Price,
		"image":        p.Selectors.Image,
	}
	for name, sel := range required {
		if sel == "" {
			return fmt.Errorf("%w: %s.%s is empty", ErrInvalidSelector, p.ID, name)
		}
	}

	all := []string{
		p.Selectors.SearchInput, p.Selectors.Results, p.Selectors.Item,
		p.Selectors.Title, p.Selectors.Price, p.Selectors.Image,
		p.Timing.ReadySelector,
	}
	for _, sel := range all {
		if sel == "" {
			continue
		}
		if _, err := cascadia.ParseGroup(sel); err != nil {
			return fmt.Errorf("%w: %s: %q: %v", ErrInvalidSelector, p.ID, sel, err)
		}
	}
	return nil
}
