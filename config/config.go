package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// AppName is used for XDG directory paths.
const AppName = "shopscout"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Pipeline  PipelineConfig
	Snapshot  SnapshotConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig

	// SitesFile is an optional YAML file with per-site selector and timing
	// overrides. Sites holds its parsed content.
	SitesFile string
	Sites     *SitesFile
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser sessions.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxSessions caps the number of live browser sessions (one Chromium
	// process each).
	MaxSessions int // default: 4

	// Proxy is the proxy URL passed to every browser process.
	Proxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// UserAgent overrides the browser user agent. Empty keeps Chromium's.
	UserAgent string

	// AcceptLanguage is sent with every request. The default targets the
	// Spanish storefronts.
	AcceptLanguage string // default: "es-ES,es;q=0.9,en;q=0.8"

	// BlockedResourceTypes lists resource types to block.
	// default: ["Font", "Media"]
	BlockedResourceTypes []string

	// BlockAds drops requests to well-known ad and tracking domains.
	BlockAds bool // default: true
}

// PipelineConfig controls the per-site extraction pipeline.
type PipelineConfig struct {
	// SiteTimeout is the hard deadline for one site's whole pipeline.
	SiteTimeout time.Duration // default: 3m

	// Concurrency caps how many site pipelines run at once. 0 means one
	// per registered site.
	Concurrency int
}

// SnapshotConfig controls where the last extraction per site is stored.
type SnapshotConfig struct {
	// Backend is "file", "sqlite" or "none".
	Backend string // default: "file"

	// Dir is the directory for snapshot files or the SQLite database.
	Dir string // default: $XDG_DATA_HOME/shopscout/snapshots
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// CacheConfig controls the search response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 500
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults,
// then merges the sites file when SHOPSCOUT_SITES_FILE is set.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: envOr("SHOPSCOUT_HOST", "0.0.0.0"),
			Port: envIntOr("SHOPSCOUT_PORT", 8080),
			Mode: envOr("SHOPSCOUT_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("SHOPSCOUT_HEADLESS", true),
			MaxSessions:    envIntOr("SHOPSCOUT_MAX_SESSIONS", 4),
			Proxy:          os.Getenv("SHOPSCOUT_PROXY"),
			NoSandbox:      envBoolOr("SHOPSCOUT_NO_SANDBOX", false),
			BrowserBin:     os.Getenv("SHOPSCOUT_BROWSER_BIN"),
			UserAgent:      os.Getenv("SHOPSCOUT_USER_AGENT"),
			AcceptLanguage: envOr("SHOPSCOUT_ACCEPT_LANGUAGE", "es-ES,es;q=0.9,en;q=0.8"),
			BlockedResourceTypes: envSliceOr("SHOPSCOUT_BLOCKED_RESOURCES", []string{
				"Font", "Media",
			}),
			BlockAds: envBoolOr("SHOPSCOUT_BLOCK_ADS", true),
		},
		Pipeline: PipelineConfig{
			SiteTimeout: envDurationOr("SHOPSCOUT_SITE_TIMEOUT", 3*time.Minute),
			Concurrency: envIntOr("SHOPSCOUT_CONCURRENCY", 0),
		},
		Snapshot: SnapshotConfig{
			Backend: envOr("SHOPSCOUT_SNAPSHOT_BACKEND", "file"),
			Dir:     envOr("SHOPSCOUT_SNAPSHOT_DIR", DefaultSnapshotDir()),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SHOPSCOUT_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SHOPSCOUT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SHOPSCOUT_RATE_RPS", 1.0),
			Burst:             envIntOr("SHOPSCOUT_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SHOPSCOUT_CACHE_MAX_ENTRIES", 500),
		},
		Log: LogConfig{
			Level:  envOr("SHOPSCOUT_LOG_LEVEL", "info"),
			Format: envOr("SHOPSCOUT_LOG_FORMAT", "json"),
		},
		SitesFile: os.Getenv("SHOPSCOUT_SITES_FILE"),
	}

	if cfg.SitesFile != "" {
		sites, err := LoadSitesFile(cfg.SitesFile)
		if err != nil {
			return nil, err
		}
		cfg.Sites = sites
	}

	return cfg, cfg.Validate()
}

// DefaultSnapshotDir returns the XDG data directory used for snapshots.
// On Linux: ~/.local/share/shopscout/snapshots
func DefaultSnapshotDir() string {
	return filepath.Join(xdg.DataHome, AppName, "snapshots")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Browser.MaxSessions <= 0 {
		return ErrInvalidMaxSessions
	}
	if c.Pipeline.SiteTimeout <= 0 {
		return ErrInvalidSiteTimeout
	}
	if c.Pipeline.Concurrency < 0 {
		return ErrInvalidConcurrency
	}
	switch c.Snapshot.Backend {
	case "file", "sqlite":
		if c.Snapshot.Dir == "" {
			return ErrMissingSnapshotDir
		}
	case "none":
	default:
		return ErrUnknownSnapshotBackend
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		return ErrNoAPIKeys
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
