package backups

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/cli/clitest"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

func setupBackupCtx(t *testing.T) (*cli.Context, func() string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitlit.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx, out := clitest.NewWithStore(t, store, constants.DriverSQLite)
	return ctx, func() string {
		s := out.String()
		out.Reset()
		return s
	}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, output := setupBackupCtx(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(output(), "No backups found.") {
		t.Error("expected no backups before create")
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(output(), "Backup created: "+constants.BackupFilePrefix) {
		t.Error("expected created backup name in output")
	}

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(output(), "Available backups (1 total") {
		t.Error("expected one backup listed")
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, output := setupBackupCtx(t)
	clitest.AddHabit(t, ctx, "Before backup")

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	mgr, err := ctx.BackupManager()
	if err != nil {
		t.Fatalf("BackupManager failed: %v", err)
	}
	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup, got %d (%v)", len(backups), err)
	}
	output()

	clitest.AddHabit(t, ctx, "After backup")

	// Declining leaves the database alone
	ctx.In = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path)}).Run(ctx); err != nil {
		t.Fatalf("restore (declined) failed: %v", err)
	}
	if !strings.Contains(output(), "Restore cancelled.") {
		t.Error("expected cancellation message")
	}

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(output(), "Previous database saved as") {
		t.Error("expected the safety copy to be reported")
	}

	if err := ctx.Store.Load(context.Background()); err != nil {
		t.Fatalf("reload after restore failed: %v", err)
	}
	list, err := ctx.Habits.List(context.Background(), ctx.Owner, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Before backup" {
		t.Errorf("expected only the backed-up habit, got %+v", list)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _ := setupBackupCtx(t)
	err := (&BackupRestoreCmd{BackupFile: "does-not-exist.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "backup file not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestBackupRequiresFileDriver(t *testing.T) {
	ctx, _ := clitest.New(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected memory driver to reject backups")
	}
}

func TestResolveBackupPath(t *testing.T) {
	dir := t.TempDir()
	name := "habitlit-20240110-030000.db"
	full := filepath.Join(dir, name)
	if err := os.WriteFile(full, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := resolveBackupPath(name, dir)
	if err != nil || got != full {
		t.Errorf("bare name: got %q, %v", got, err)
	}
	got, err = resolveBackupPath(full, t.TempDir())
	if err != nil || got != full {
		t.Errorf("absolute path: got %q, %v", got, err)
	}
	if _, err := resolveBackupPath(filepath.Join(dir, "missing.db"), dir); err == nil {
		t.Error("expected error for missing absolute path")
	}
}
