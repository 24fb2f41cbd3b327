package backup

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
	"github.com/julianstephens/habitlit/internal/storage/storagetest"
)

// setupTestDB creates a migrated habitlit database holding one habit
func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitlit.db")
	store := sqlite.NewStore(dbPath)
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	if err := store.AddHabit(ctx, storagetest.NewHabit("h1", storagetest.Owner)); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	store.Close()
	return dbPath
}

func countHabits(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM habits").Scan(&n); err != nil {
		t.Fatalf("failed to count habits in %s: %v", path, err)
	}
	return n
}

func addHabitRow(t *testing.T, path, id string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	_, err = db.Exec(`INSERT INTO habits (id, owner_id, title, created_at, updated_at)
		VALUES (?, 'owner-1', 'extra', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`, id)
	if err != nil {
		t.Fatalf("failed to insert habit: %v", err)
	}
}

// steppingClock advances one second per call so every backup gets its own stamp
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written to %s, want dir %s", backupPath, mgr.GetBackupDir())
	}
	if got := countHabits(t, backupPath); got != 1 {
		t.Errorf("expected 1 habit in backup, got %d", got)
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2024, 1, 10, 3, 0, 0, 0, time.Local))

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
	// The five oldest were rotated out
	oldestKept := time.Date(2024, 1, 10, 3, 0, 6, 0, time.Local)
	if !backups[len(backups)-1].Timestamp.Equal(oldestKept) {
		t.Errorf("oldest kept = %v, want %v", backups[len(backups)-1].Timestamp, oldestKept)
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}
	// Files that don't follow the naming scheme are ignored
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Path == "" || b.Size == 0 || b.Timestamp.IsZero() {
			t.Errorf("incomplete backup info: %+v", b)
		}
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 1, 10, 3, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		if seen[filepath.Base(p)] {
			t.Errorf("duplicate backup filename: %s", p)
		}
		seen[filepath.Base(p)] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 5 {
		t.Fatalf("expected 5 backups with counters, got %d", len(backups))
	}
	if filepath.Base(backups[0].Path) != "habitlit-20240110-030000-4.db" {
		t.Errorf("newest backup = %s, want highest counter first", filepath.Base(backups[0].Path))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2024, 1, 10, 3, 0, 0, 0, time.Local))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	addHabitRow(t, dbPath, "h2")
	if got := countHabits(t, dbPath); got != 2 {
		t.Fatalf("expected 2 habits before restore, got %d", got)
	}

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	if got := countHabits(t, dbPath); got != 1 {
		t.Errorf("expected 1 habit after restore, got %d", got)
	}
	if safety == "" {
		t.Fatal("expected a safety copy of the pre-restore database")
	}
	if got := countHabits(t, safety); got != 2 {
		t.Errorf("safety copy holds %d habits, want 2", got)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Errorf("expected 2 backups after restore, got %d", len(backups))
	}
}

func TestRestoreRejectsInvalidBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}

	corrupted := filepath.Join(mgr.GetBackupDir(), "corrupted.db")
	if err := os.WriteFile(corrupted, []byte("not a valid sqlite database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(corrupted); err == nil {
		t.Error("expected error when restoring from corrupted backup")
	}

	// A valid SQLite file that is not a habitlit database
	foreign := filepath.Join(mgr.GetBackupDir(), "foreign.db")
	db, err := sql.Open("sqlite", foreign)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE other (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	db.Close()
	if _, err := mgr.RestoreBackup(foreign); err == nil {
		t.Error("expected error when restoring a non-habitlit database")
	}

	if _, err := mgr.RestoreBackup(filepath.Join(mgr.GetBackupDir(), "missing.db")); err == nil {
		t.Error("expected error for missing backup file")
	}

	if got := countHabits(t, dbPath); got != 1 {
		t.Errorf("database changed by failed restores: %d habits", got)
	}
}

func TestBackupWithNoDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nonexistent.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error when backing up non-existent database")
	}
}
