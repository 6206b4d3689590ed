package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/use-agent/shopscout/models"
)

// FileStore keeps one "<site>.json" file per site: a UTF-8, indented JSON
// array of listings.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("snapshot directory is empty")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file that holds site's snapshot.
func (s *FileStore) Path(site string) string {
	return filepath.Join(s.dir, site+".json")
}

// Save writes listings to a temp file and renames it over the previous
// snapshot, so readers never see a partial file.
func (s *FileStore) Save(ctx context.Context, site string, listings []models.Listing) error {
	if err := checkKey(site); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if listings == nil {
		listings = []models.Listing{}
	}

	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, site+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.Path(site)); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads site's snapshot. SavedAt is the file's modification time.
func (s *FileStore) Load(ctx context.Context, site string) (*models.Snapshot, error) {
	if err := checkKey(site); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(site)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path built from a validated key
	if err != nil {
		return nil, err
	}

	var listings []models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("corrupt snapshot %s: %w", path, err)
	}
	return &models.Snapshot{Site: site, Listings: listings, SavedAt: info.ModTime().UTC()}, nil
}

func (s *FileStore) Close() error { return nil }
