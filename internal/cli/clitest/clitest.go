// Package clitest builds command contexts with captured output for tests.
package clitest

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/progress"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/memory"
	"github.com/julianstephens/habitlit/internal/validation"
)

// Today is the fixed date every test context reports
const Today = "2024-01-10"

// New returns a context over an in-memory store and the buffer its output goes to
func New(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	return NewWithStore(t, memory.NewStore(), constants.DriverMemory)
}

// NewWithStore wraps an already initialized store
func NewWithStore(t *testing.T, store storage.Provider, driver string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	d, err := civil.ParseDate(Today)
	if err != nil {
		t.Fatalf("bad test date: %v", err)
	}
	ctx := cli.NewContext(store, progress.FixedClock{Date: d}, driver)
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.In = strings.NewReader("")
	return ctx, out
}

// AddHabit creates an active habit owned by the context's owner
func AddHabit(t *testing.T, ctx *cli.Context, title string) models.Habit {
	t.Helper()
	h, err := ctx.Habits.Create(context.Background(), ctx.Owner, validation.HabitInput{Title: title})
	if err != nil {
		t.Fatalf("failed to create habit %q: %v", title, err)
	}
	return h
}

// Log records a completion on date for habit
func Log(t *testing.T, ctx *cli.Context, habitID, date string) {
	t.Helper()
	_, err := ctx.Engine.LogEntry(context.Background(), progress.LogEntryInput{
		HabitID: habitID,
		OwnerID: ctx.Owner,
		Date:    date,
		Count:   1,
	})
	if err != nil {
		t.Fatalf("failed to log %s on %s: %v", habitID, date, err)
	}
}
