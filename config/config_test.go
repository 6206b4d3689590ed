package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHOPSCOUT_SNAPSHOT_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if !cfg.Browser.Headless {
		t.Error("Browser.Headless should default to true")
	}
	if cfg.Browser.MaxSessions != 4 {
		t.Errorf("Browser.MaxSessions = %d, want 4", cfg.Browser.MaxSessions)
	}
	if cfg.Pipeline.SiteTimeout != 3*time.Minute {
		t.Errorf("Pipeline.SiteTimeout = %v, want 3m", cfg.Pipeline.SiteTimeout)
	}
	if cfg.Snapshot.Backend != "file" {
		t.Errorf("Snapshot.Backend = %q, want file", cfg.Snapshot.Backend)
	}
	if cfg.Sites != nil {
		t.Error("Sites should be nil without SHOPSCOUT_SITES_FILE")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHOPSCOUT_PORT", "9090")
	t.Setenv("SHOPSCOUT_MAX_SESSIONS", "2")
	t.Setenv("SHOPSCOUT_SITE_TIMEOUT", "45s")
	t.Setenv("SHOPSCOUT_BLOCKED_RESOURCES", "Image, Font ,")
	t.Setenv("SHOPSCOUT_SNAPSHOT_BACKEND", "none")
	t.Setenv("SHOPSCOUT_HEADLESS", "not-a-bool")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Browser.MaxSessions != 2 {
		t.Errorf("Browser.MaxSessions = %d, want 2", cfg.Browser.MaxSessions)
	}
	if cfg.Pipeline.SiteTimeout != 45*time.Second {
		t.Errorf("Pipeline.SiteTimeout = %v, want 45s", cfg.Pipeline.SiteTimeout)
	}
	if got := cfg.Browser.BlockedResourceTypes; len(got) != 2 || got[0] != "Image" || got[1] != "Font" {
		t.Errorf("BlockedResourceTypes = %v", got)
	}
	if !cfg.Browser.Headless {
		t.Error("unparseable bool should fall back to the default")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			Browser:  BrowserConfig{MaxSessions: 1},
			Pipeline: PipelineConfig{SiteTimeout: time.Minute},
			Snapshot: SnapshotConfig{Backend: "file", Dir: "/tmp/snapshots"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"zero sessions", func(c *Config) { c.Browser.MaxSessions = 0 }, ErrInvalidMaxSessions},
		{"zero timeout", func(c *Config) { c.Pipeline.SiteTimeout = 0 }, ErrInvalidSiteTimeout},
		{"negative concurrency", func(c *Config) { c.Pipeline.Concurrency = -1 }, ErrInvalidConcurrency},
		{"sqlite without dir", func(c *Config) { c.Snapshot = SnapshotConfig{Backend: "sqlite"} }, ErrMissingSnapshotDir},
		{"none without dir", func(c *Config) { c.Snapshot = SnapshotConfig{Backend: "none"} }, nil},
		{"unknown backend", func(c *Config) { c.Snapshot.Backend = "s3" }, ErrUnknownSnapshotBackend},
		{"auth without keys", func(c *Config) { c.Auth.Enabled = true }, ErrNoAPIKeys},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadSitesFile(t *testing.T) {
	t.Parallel()

	t.Run("parses overrides", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sites.yaml")
		content := `
sites:
  aliexpress:
    selectors:
      results: ".gallery"
      image_attr: "data-src"
    timing:
      settle_delay: 2s
      ready_selector: "input[type=text]"
      await_navigation: true
  amazon:
    disabled: true
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		sf, err := LoadSitesFile(path)
		if err != nil {
			t.Fatalf("LoadSitesFile() error = %v", err)
		}

		ali := sf.Sites["aliexpress"]
		if ali.Selectors.Results != ".gallery" || ali.Selectors.ImageAttr != "data-src" {
			t.Errorf("selectors = %+v", ali.Selectors)
		}
		if time.Duration(ali.Timing.SettleDelay) != 2*time.Second {
			t.Errorf("settle delay = %v", time.Duration(ali.Timing.SettleDelay))
		}
		if ali.Timing.AwaitNavigation == nil || !*ali.Timing.AwaitNavigation {
			t.Error("await_navigation should be true")
		}
		if !sf.Sites["amazon"].Disabled {
			t.Error("amazon should be disabled")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadSitesFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrSitesFileNotFound) {
			t.Errorf("error = %v, want ErrSitesFileNotFound", err)
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sites.yaml")
		content := "sites:\n  amazon:\n    timing:\n      settle_delay: soon\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSitesFile(path); err == nil {
			t.Error("expected an error for an invalid duration")
		}
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sites.yaml")
		if err := os.WriteFile(path, []byte(""), 0o600); err != nil {
			t.Fatal(err)
		}
		sf, err := LoadSitesFile(path)
		if err != nil {
			t.Fatalf("LoadSitesFile() error = %v", err)
		}
		if sf.Sites == nil {
			t.Error("Sites map should be initialised")
		}
	})
}
