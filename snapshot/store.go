// Package snapshot persists the last successful extraction of each site.
// Every save overwrites the previous snapshot for that site.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/use-agent/shopscout/config"
	"github.com/use-agent/shopscout/models"
)

// ErrNotFound is returned by Load when a site has no snapshot yet.
var ErrNotFound = errors.New("snapshot not found")

// ErrInvalidKey is returned for site keys that cannot be stored safely.
var ErrInvalidKey = errors.New("invalid snapshot key")

// Store saves and loads snapshots keyed by site ID.
type Store interface {
	// Save replaces the snapshot for site with listings.
	Save(ctx context.Context, site string, listings []models.Listing) error

	// Load returns the current snapshot for site, or ErrNotFound.
	Load(ctx context.Context, site string) (*models.Snapshot, error)

	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func checkKey(site string) error {
	if !keyPattern.MatchString(site) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, site)
	}
	return nil
}

// Open returns the store selected by cfg.Backend.
func Open(cfg config.SnapshotConfig) (Store, error) {
	switch cfg.Backend {
	case BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendSQLite:
		return OpenSQLite(cfg.Dir)
	case BackendNone, "":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownSnapshotBackend, cfg.Backend)
	}
}

// Nop discards saves and never has a snapshot.
type Nop struct{}

func (Nop) Save(context.Context, string, []models.Listing) error { return nil }

func (Nop) Load(context.Context, string) (*models.Snapshot, error) { return nil, ErrNotFound }

func (Nop) Close() error { return nil }
