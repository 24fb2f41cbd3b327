package habits

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/cli/clitest"
	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

func TestHabitAddCmd(t *testing.T) {
	ctx, out := clitest.New(t)

	cmd := &HabitAddCmd{Title: "  Meditate ", Frequency: "daily", Target: 2, Color: "#10B981"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out.String(), `Added habit "Meditate"`) {
		t.Errorf("unexpected output: %q", out.String())
	}

	list, err := ctx.Habits.List(context.Background(), ctx.Owner, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Meditate" || list[0].TargetCount != 2 || list[0].Color != "#10B981" {
		t.Errorf("unexpected habits: %+v", list)
	}
}

func TestHabitAddCmdValidation(t *testing.T) {
	tests := []struct {
		name  string
		cmd   HabitAddCmd
		field string
	}{
		{"blank title", HabitAddCmd{Title: "   "}, "title"},
		{"bad color", HabitAddCmd{Title: "Read", Color: "blue"}, "color"},
		{"target too high", HabitAddCmd{Title: "Read", Target: 101}, "target_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := clitest.New(t)
			err := tt.cmd.Run(ctx)
			if !apperrors.Is(err, apperrors.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			found := false
			for _, f := range apperrors.Fields(err) {
				if f.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a %s field error, got %v", tt.field, apperrors.Fields(err))
			}
		})
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx, out := clitest.New(t)

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No habits found.") {
		t.Errorf("expected empty message, got %q", out.String())
	}

	read := clitest.AddHabit(t, ctx, "Read")
	gone := clitest.AddHabit(t, ctx, "Floss")
	clitest.Log(t, ctx, read.ID, "2024-01-09")
	if err := ctx.Habits.Deactivate(context.Background(), gone.ID, ctx.Owner); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	out.Reset()
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Read") || strings.Contains(out.String(), "Floss") {
		t.Errorf("default list should only show active habits, got %q", out.String())
	}
	if !strings.Contains(out.String(), "1 entries, last 2024-01-09") {
		t.Errorf("expected totals in listing, got %q", out.String())
	}

	out.Reset()
	if err := (&HabitListCmd{All: true}).Run(ctx); err != nil {
		t.Fatalf("list --all failed: %v", err)
	}
	if !strings.Contains(out.String(), "Floss") || !strings.Contains(out.String(), "[DELETED]") {
		t.Errorf("--all should include deleted habits, got %q", out.String())
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, out := clitest.New(t)
	h := clitest.AddHabit(t, ctx, "Run")

	if err := (&HabitEditCmd{Habit: "Run"}).Run(ctx); err == nil {
		t.Error("expected an error when nothing changes")
	}

	cmd := &HabitEditCmd{Habit: h.ID, Title: "Run 5k", Frequency: "weekly"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !strings.Contains(out.String(), `Updated habit "Run 5k"`) {
		t.Errorf("unexpected output: %q", out.String())
	}

	got, err := ctx.Habits.Get(context.Background(), h.ID, ctx.Owner)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "Run 5k" || got.Frequency != "weekly" || got.Color != h.Color {
		t.Errorf("edit did not merge fields: %+v", got)
	}
}

func TestHabitEditClearDescription(t *testing.T) {
	ctx, _ := clitest.New(t)
	if err := (&HabitAddCmd{Title: "Stretch", Description: "Ten minutes", Frequency: "daily", Target: 2}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := (&HabitEditCmd{Habit: "Stretch", Color: "#10B981"}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	h, err := ctx.ResolveHabit(context.Background(), "Stretch")
	if err != nil {
		t.Fatal(err)
	}
	if h.Description != "Ten minutes" || h.TargetCount != 2 {
		t.Errorf("unrelated fields changed: %+v", h.Habit)
	}

	if err := (&HabitEditCmd{Habit: "Stretch", ClearDescription: true}).Run(ctx); err != nil {
		t.Fatalf("edit --clear-description failed: %v", err)
	}
	got, err := ctx.Habits.Get(context.Background(), h.ID, ctx.Owner)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "" || got.Color != "#10B981" || got.TargetCount != 2 {
		t.Errorf("after clearing description: %+v", got)
	}
}

func TestDestructiveCommandsBackUpFirst(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitlit.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	ctx, _ := clitest.NewWithStore(t, store, constants.DriverSQLite)
	clitest.AddHabit(t, ctx, "Journal")

	mgr, err := ctx.BackupManager()
	if err != nil {
		t.Fatal(err)
	}

	if err := (&HabitEditCmd{Habit: "Journal", Target: 3}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("edit should leave one automatic backup, got %d", len(backups))
	}

	if err := (&HabitDeleteCmd{Habit: "Journal"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if backups, err = mgr.ListBackups(); err != nil || len(backups) == 0 {
		t.Fatalf("delete should keep an automatic backup, got %d (%v)", len(backups), err)
	}
}

func TestHabitDeleteAndRestore(t *testing.T) {
	ctx, out := clitest.New(t)
	h := clitest.AddHabit(t, ctx, "Stretch")
	clitest.Log(t, ctx, h.ID, "2024-01-10")

	if err := (&HabitDeleteCmd{Habit: "Stretch"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got, _ := ctx.Habits.Get(context.Background(), h.ID, ctx.Owner)
	if got.Active {
		t.Fatal("habit should be inactive after delete")
	}

	out.Reset()
	if err := (&HabitDeleteCmd{Habit: "Stretch"}).Run(ctx); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "already deleted") {
		t.Errorf("expected already-deleted notice, got %q", out.String())
	}

	if err := (&HabitRestoreCmd{Habit: "Stretch"}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	got, _ = ctx.Habits.Get(context.Background(), h.ID, ctx.Owner)
	if !got.Active {
		t.Fatal("habit should be active after restore")
	}

	streak, err := ctx.Engine.GetStreak(context.Background(), h.ID, ctx.Owner)
	if err != nil {
		t.Fatalf("GetStreak failed: %v", err)
	}
	if streak.TotalCompletions != 1 {
		t.Errorf("history should survive delete and restore, got %d completions", streak.TotalCompletions)
	}
}

func TestHabitShowCmd(t *testing.T) {
	ctx, out := clitest.New(t)
	h := clitest.AddHabit(t, ctx, "Water plants")

	if err := (&HabitShowCmd{Habit: h.ID[:8]}).Run(ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"Water plants", h.ID, "daily (target 1)", "Active:      true"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output missing %q: %q", want, out.String())
		}
	}

	if err := (&HabitShowCmd{Habit: "nope"}).Run(ctx); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
