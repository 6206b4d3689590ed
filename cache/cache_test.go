package cache

import (
	"testing"
	"time"

	"github.com/use-agent/shopscout/models"
)

func TestKey(t *testing.T) {
	t.Parallel()

	sites := []string{"aliexpress", "amazon"}
	if Key("Auriculares  Bluetooth", sites) != Key("  auriculares bluetooth ", sites) {
		t.Error("keys should ignore case and spacing")
	}
	if Key("auriculares", sites) == Key("auriculares", sites[:1]) {
		t.Error("keys should depend on the site set")
	}
}

func TestGetSet(t *testing.T) {
	t.Parallel()

	c := newCache(10)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	resp := &models.SearchResponse{Success: true, Term: "auriculares"}
	key := Key("auriculares", nil)
	c.Set(key, resp)

	if _, ok := c.Get(key, 0); ok {
		t.Error("max age 0 must bypass the cache")
	}
	if got, ok := c.Get(key, 60_000); !ok || got != resp {
		t.Error("expected cache hit")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(key, 60_000); ok {
		t.Error("expected stale entry to miss")
	}
	if _, ok := c.Get("missing", 60_000); ok {
		t.Error("unexpected hit for missing key")
	}
}

func TestCapacityAndExpiry(t *testing.T) {
	t.Parallel()

	c := newCache(2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", &models.SearchResponse{})
	c.Set("b", &models.SearchResponse{})
	c.Set("b", &models.SearchResponse{})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	c.Set("c", &models.SearchResponse{})
	if c.Len() != 2 {
		t.Errorf("Len() = %d after eviction, want 2", c.Len())
	}

	now = now.Add(2 * time.Hour)
	c.evictExpired()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expiry, want 0", c.Len())
	}
}
