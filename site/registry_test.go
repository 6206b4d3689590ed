package site

import (
	"errors"
	"testing"
	"time"

	"github.com/use-agent/shopscout/config"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	ids := r.IDs()
	if len(ids) != 2 || ids[0] != AliExpressID || ids[1] != AmazonID {
		t.Fatalf("IDs() = %v", ids)
	}
	e, ok := r.Get(AmazonID)
	if !ok {
		t.Fatal("amazon not registered")
	}
	if e.SearchURL() != "https://www.amazon.es/" {
		t.Errorf("SearchURL() = %q", e.SearchURL())
	}
	if _, ok := r.Get("ebay"); ok {
		t.Error("unexpected site ebay")
	}
}

func TestNewRegistryDuplicate(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(New(Amazon()), New(Amazon()))
	if !errors.Is(err, ErrDuplicateSite) {
		t.Errorf("NewRegistry() error = %v, want %v", err, ErrDuplicateSite)
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("override selectors and timing", func(t *testing.T) {
		t.Parallel()
		await := false
		sf := &config.SitesFile{Sites: map[string]config.SiteOverride{
			AliExpressID: {
				Selectors: config.SelectorOverride{Results: ".list--gallery--new"},
				Timing: config.TimingOverride{
					ReadySelector:   `input[type="text"]`,
					SettleDelay:     config.Duration(2 * time.Second),
					AwaitNavigation: &await,
				},
			},
		}}
		r, err := FromConfig(sf)
		if err != nil {
			t.Fatalf("FromConfig() error = %v", err)
		}
		e, _ := r.Get(AliExpressID)
		timing := e.Timing()
		if timing.SettleDelay != 2*time.Second || timing.ReadySelector != `input[type="text"]` {
			t.Errorf("timing not applied: %+v", timing)
		}
		if timing.KeyDelay != DefaultKeyDelay {
			t.Errorf("unset fields should keep defaults, KeyDelay = %s", timing.KeyDelay)
		}
	})

	t.Run("disabled site", func(t *testing.T) {
		t.Parallel()
		sf := &config.SitesFile{Sites: map[string]config.SiteOverride{
			AmazonID: {Disabled: true},
		}}
		r, err := FromConfig(sf)
		if err != nil {
			t.Fatalf("FromConfig() error = %v", err)
		}
		if r.Len() != 1 {
			t.Errorf("Len() = %d, want 1", r.Len())
		}
	})

	t.Run("unknown site", func(t *testing.T) {
		t.Parallel()
		sf := &config.SitesFile{Sites: map[string]config.SiteOverride{"ebay": {}}}
		if _, err := FromConfig(sf); !errors.Is(err, ErrUnknownSite) {
			t.Errorf("FromConfig() error = %v, want %v", err, ErrUnknownSite)
		}
	})

	t.Run("invalid selector", func(t *testing.T) {
		t.Parallel()
		sf := &config.SitesFile{Sites: map[string]config.SiteOverride{
			AmazonID: {Selectors: config.SelectorOverride{Price: "div[[["}},
		}}
		if _, err := FromConfig(sf); !errors.Is(err, ErrInvalidSelector) {
			t.Errorf("FromConfig() error = %v, want %v", err, ErrInvalidSelector)
		}
	})
}
