package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/use-agent/shopscout/models"
)

// SQLiteStore keeps snapshots in a single SQLite database, one row per
// site.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// OpenSQLite opens or creates shopscout.db inside dir.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dbPath := filepath.Join(dir, "shopscout.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		site TEXT PRIMARY KEY,
		listings_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);`
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.dbPath }

// Save upserts site's row.
func (s *SQLiteStore) Save(ctx context.Context, site string, listings []models.Listing) error {
	if err := checkKey(site); err != nil {
		return err
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	data, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
	INSERT INTO snapshots (site, listings_json, saved_at)
	VALUES (?, ?, ?)
	ON CONFLICT(site) DO UPDATE SET
		listings_json = excluded.listings_json,
		saved_at = excluded.saved_at
	`
	if _, err := s.db.ExecContext(ctx, query, site, string(data), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns site's row, or ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, site string) (*models.Snapshot, error) {
	if err := checkKey(site); err != nil {
		return nil, err
	}

	var (
		data    string
		savedAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT listings_json, saved_at FROM snapshots WHERE site = ?", site,
	).Scan(&data, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var listings []models.Listing
	if err := json.Unmarshal([]byte(data), &listings); err != nil {
		return nil, fmt.Errorf("corrupt snapshot for %s: %w", site, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot timestamp for %s: %w", site, err)
	}
	return &models.Snapshot{Site: site, Listings: listings, SavedAt: ts}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
