package snapshot

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/use-agent/shopscout/config"
	"github.com/use-agent/shopscout/models"
)

var sample = []models.Listing{
	{Title: "Sony WH-1000XM4", RawPrice: "229,", ImageURL: "https://m.media-amazon.com/images/I/61a.jpg"},
	{Title: "JBL Tune 510BT", RawPrice: "1.299,", ImageURL: "https://m.media-amazon.com/images/I/71b.jpg"},
}

// storeContract runs the behaviour every backend must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "amazon"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() on empty store error = %v, want ErrNotFound", err)
	}

	if err := s.Save(ctx, "amazon", sample); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx, "amazon")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Site != "amazon" || len(got.Listings) != 2 || got.Listings[1] != sample[1] {
		t.Errorf("Load() = %+v", got)
	}
	if got.SavedAt.IsZero() {
		t.Error("SavedAt should be set")
	}

	// Overwrite, never append.
	if err := s.Save(ctx, "amazon", sample[:1]); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err = s.Load(ctx, "amazon")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Listings) != 1 {
		t.Errorf("expected overwrite to 1 listing, got %d", len(got.Listings))
	}

	// An empty result is still a snapshot.
	if err := s.Save(ctx, "aliexpress", nil); err != nil {
		t.Fatalf("Save(nil) error = %v", err)
	}
	got, err = s.Load(ctx, "aliexpress")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Listings) != 0 {
		t.Errorf("expected empty snapshot, got %+v", got.Listings)
	}

	if err := s.Save(ctx, "../etc/passwd", sample); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Save() with path key error = %v, want ErrInvalidKey", err)
	}
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	storeContract(t, s)
}

func TestFileStoreFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), "amazon", sample[:1]); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.Path("amazon"))
	if err != nil {
		t.Fatal(err)
	}
	want := `[
  {
    "title": "Sony WH-1000XM4",
    "rawPrice": "229,",
    "imageUrl": "https://m.media-amazon.com/images/I/61a.jpg"
  }
]`
	if string(data) != want {
		t.Errorf("file content =\n%s\nwant\n%s", data, want)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only amazon.json in %s, found %d entries", dir, len(entries))
	}
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	s, err := OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	storeContract(t, s)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		backend string
		wantErr bool
	}{
		{BackendFile, false},
		{BackendSQLite, false},
		{BackendNone, false},
		{"redis", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			t.Parallel()
			s, err := Open(config.SnapshotConfig{Backend: tt.backend, Dir: t.TempDir()})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				_ = s.Close()
			}
		})
	}
}

func TestNop(t *testing.T) {
	t.Parallel()

	var s Store = Nop{}
	if err := s.Save(context.Background(), "amazon", sample); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(context.Background(), "amazon"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}
