package cli_test

import (
	"context"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/cli/clitest"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
)

func TestResolveHabit(t *testing.T) {
	ctx, _ := clitest.New(t)
	read := clitest.AddHabit(t, ctx, "Read")
	run := clitest.AddHabit(t, ctx, "Run")

	tests := []struct {
		name   string
		ref    string
		wantID string
	}{
		{"exact id", run.ID, run.ID},
		{"title", "Read", read.ID},
		{"title ignores case", "rEAD", read.ID},
		{"id prefix", read.ID[:8], read.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ctx.ResolveHabit(context.Background(), tt.ref)
			if err != nil {
				t.Fatalf("ResolveHabit(%q) failed: %v", tt.ref, err)
			}
			if h.ID != tt.wantID {
				t.Errorf("ResolveHabit(%q) = %s, want %s", tt.ref, h.ID, tt.wantID)
			}
		})
	}
}

func TestResolveHabitErrors(t *testing.T) {
	ctx, _ := clitest.New(t)
	clitest.AddHabit(t, ctx, "Stretch")
	clitest.AddHabit(t, ctx, "stretch")

	if _, err := ctx.ResolveHabit(context.Background(), "missing"); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := ctx.ResolveHabit(context.Background(), "  "); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank ref, got %v", err)
	}
	_, err := ctx.ResolveHabit(context.Background(), "Stretch")
	if err == nil || !strings.Contains(err.Error(), "matches 2 habits") {
		t.Errorf("expected ambiguity error, got %v", err)
	}
}

func TestResolveHabitFindsDeleted(t *testing.T) {
	ctx, _ := clitest.New(t)
	h := clitest.AddHabit(t, ctx, "Journal")
	if err := ctx.Habits.Deactivate(context.Background(), h.ID, ctx.Owner); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	got, err := ctx.ResolveHabit(context.Background(), "Journal")
	if err != nil {
		t.Fatalf("ResolveHabit failed: %v", err)
	}
	if got.Active {
		t.Error("expected the inactive habit to be returned")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		ctx, out := clitest.New(t)
		ctx.In = strings.NewReader(tt.input)
		got, err := ctx.Confirm("Continue?")
		if err != nil {
			t.Fatalf("Confirm(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Continue? [y/N]") {
			t.Errorf("prompt not written, got %q", out.String())
		}
	}
}

func TestBackupManagerRequiresFileDriver(t *testing.T) {
	ctx, _ := clitest.New(t)
	if _, err := ctx.BackupManager(); err == nil {
		t.Error("expected memory driver to reject backups")
	}
	if ctx.FileBacked() {
		t.Error("memory driver should not be file backed")
	}
}
