package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "habitlit.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "init") {
		t.Errorf("Load() on missing database error = %v, want hint to run init", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "habitlit.db")

	store := NewStore(path)
	if err := store.Init(ctx); err != nil {
		t.Fatal(err)
	}
	h := storagetest.NewHabit("h1", storagetest.Owner)
	if err := store.AddHabit(ctx, h); err != nil {
		t.Fatal(err)
	}
	if _, err := store.UpsertEntry(ctx, storagetest.NewEntry("h1", "2024-02-29", 2)); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	dates, err := reopened.ListEntryDates(ctx, "h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 1 || dates[0] != storagetest.Date("2024-02-29") {
		t.Errorf("dates after reopen = %v", dates)
	}
}

func TestSchemaVersion(t *testing.T) {
	store := setupTestStore(t)
	current, latest, err := store.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if current == 0 || current != latest {
		t.Errorf("schema version = %d/%d, want fully migrated", current, latest)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Init(context.Background()); err != nil {
		t.Errorf("second Init failed: %v", err)
	}
}
