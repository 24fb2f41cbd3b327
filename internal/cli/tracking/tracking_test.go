package tracking

import (
	"context"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/cli/clitest"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
)

func TestLogCmd(t *testing.T) {
	ctx, out := clitest.New(t)
	h := clitest.AddHabit(t, ctx, "Read")
	clitest.Log(t, ctx, h.ID, "2024-01-09")

	if err := (&LogCmd{Habit: "Read", Count: 1}).Run(ctx); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if !strings.Contains(out.String(), `Logged "Read" for `+clitest.Today) {
		t.Errorf("expected today's date in output, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Current streak: 2 days") {
		t.Errorf("expected streak in output, got %q", out.String())
	}
}

func TestLogCmdOverwritesSameDay(t *testing.T) {
	ctx, _ := clitest.New(t)
	h := clitest.AddHabit(t, ctx, "Push-ups")

	for _, count := range []int{1, 3} {
		if err := (&LogCmd{Habit: h.ID, Date: "2024-01-05", Count: count, Note: "set"}).Run(ctx); err != nil {
			t.Fatalf("log count=%d failed: %v", count, err)
		}
	}

	entries, err := ctx.Habits.History(context.Background(), h.ID, ctx.Owner, "", "")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 1 || entries[0].CompletedCount != 3 {
		t.Errorf("expected one entry with count 3, got %+v", entries)
	}
}

func TestLogCmdErrors(t *testing.T) {
	ctx, _ := clitest.New(t)
	h := clitest.AddHabit(t, ctx, "Read")

	if err := (&LogCmd{Habit: h.ID, Date: "2024-02-30", Count: 1}).Run(ctx); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("bad date: expected ErrInvalidInput, got %v", err)
	}
	if err := (&LogCmd{Habit: h.ID, Count: 0}).Run(ctx); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("zero count: expected ErrInvalidInput, got %v", err)
	}

	if err := ctx.Habits.Deactivate(context.Background(), h.ID, ctx.Owner); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if err := (&LogCmd{Habit: h.ID, Count: 1}).Run(ctx); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("inactive habit: expected ErrNotFound, got %v", err)
	}
}

func TestStreakCmd(t *testing.T) {
	ctx, out := clitest.New(t)

	if err := (&StreakCmd{}).Run(ctx); err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	if !strings.Contains(out.String(), "No habits found.") {
		t.Errorf("expected empty message, got %q", out.String())
	}

	h := clitest.AddHabit(t, ctx, "Walk")
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-09", "2024-01-10"} {
		clitest.Log(t, ctx, h.ID, d)
	}

	out.Reset()
	if err := (&StreakCmd{Habit: "Walk"}).Run(ctx); err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	for _, want := range []string{"current 2 days", "longest 4 days", "total 6"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("streak output missing %q: %q", want, out.String())
		}
	}
}

func TestHistoryCmd(t *testing.T) {
	ctx, out := clitest.New(t)
	h := clitest.AddHabit(t, ctx, "Journal")
	for _, d := range []string{"2024-01-02", "2024-01-05", "2024-01-08"} {
		clitest.Log(t, ctx, h.ID, d)
	}

	if err := (&HistoryCmd{Habit: "Journal", From: "2024-01-03", To: "2024-01-08"}).Run(ctx); err != nil {
		t.Fatalf("history failed: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "2024-01-02") || !strings.Contains(got, "2024-01-05") || !strings.Contains(got, "2024-01-08") {
		t.Errorf("history ignored bounds: %q", got)
	}
	if !strings.Contains(got, "2 entries") {
		t.Errorf("expected entry count, got %q", got)
	}

	err := (&HistoryCmd{Habit: "Journal", From: "2024-01-08", To: "2024-01-01"}).Run(ctx)
	if !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("reversed range: expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalyticsCmd(t *testing.T) {
	ctx, out := clitest.New(t)

	if err := (&AnalyticsCmd{Period: "week"}).Run(ctx); err != nil {
		t.Fatalf("analytics failed: %v", err)
	}
	if !strings.Contains(out.String(), "No habits to summarize.") {
		t.Errorf("expected empty message, got %q", out.String())
	}

	read := clitest.AddHabit(t, ctx, "Read")
	run := clitest.AddHabit(t, ctx, "Run")
	for _, d := range []string{"2024-01-08", "2024-01-09", "2024-01-10"} {
		clitest.Log(t, ctx, read.ID, d)
	}
	clitest.Log(t, ctx, run.ID, "2024-01-10")

	out.Reset()
	if err := (&AnalyticsCmd{Period: "week"}).Run(ctx); err != nil {
		t.Fatalf("analytics failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Last 7 days (2024-01-03 to 2024-01-10)", "43%", "14%", "3/7", "Best habit: Read"} {
		if !strings.Contains(got, want) {
			t.Errorf("analytics output missing %q: %q", want, got)
		}
	}

	out.Reset()
	if err := (&AnalyticsCmd{Period: "month", Habits: []string{"Run"}}).Run(ctx); err != nil {
		t.Fatalf("analytics for one habit failed: %v", err)
	}
	if strings.Contains(out.String(), "Read") {
		t.Errorf("explicit habit list should exclude others, got %q", out.String())
	}

	if err := (&AnalyticsCmd{Period: "year"}).Run(ctx); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("unknown period: expected ErrInvalidInput, got %v", err)
	}
}
