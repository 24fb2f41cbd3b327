package storage

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitlit/internal/models"
)

// EntryLog is the date-keyed completion log the progress engine reads and writes.
//
// Implementations must keep at most one entry per (habit id, date). UpsertEntry
// creates the entry for that day or overwrites its count, notes and updated_at,
// atomically with respect to that key: concurrent upserts for the same day
// serialize in the store and the later write wins. Stores without a native
// upsert must emulate insert-or-update on the key.
type EntryLog interface {
	// GetHabit returns the habit if it exists and belongs to ownerID.
	// Inactive habits are returned; callers decide what inactive means for them.
	GetHabit(ctx context.Context, id, ownerID string) (models.Habit, error)
	// UpsertEntry fails with errors.ErrNotFound if the habit is missing or inactive.
	UpsertEntry(ctx context.Context, entry models.HabitEntry) (models.HabitEntry, error)
	// ListEntryDates returns the habit's full history, distinct and ascending.
	ListEntryDates(ctx context.Context, habitID string) ([]civil.Date, error)
	// ListEntries returns entries with start <= date <= end, ascending by date.
	ListEntries(ctx context.Context, habitID string, start, end civil.Date) ([]models.HabitEntry, error)
}

// HabitStore manages habit definitions
type HabitStore interface {
	AddHabit(ctx context.Context, habit models.Habit) error
	UpdateHabit(ctx context.Context, habit models.Habit) error
	// SetHabitActive flips the active flag; habits are never physically removed.
	SetHabitActive(ctx context.Context, id, ownerID string, active bool) error
	ListHabits(ctx context.Context, ownerID string, includeInactive bool) ([]models.HabitSummary, error)
}

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	HabitStore
	EntryLog

	// SchemaVersion reports the applied and latest known migration versions
	SchemaVersion(ctx context.Context) (current, latest int, err error)

	// Utils
	GetConfigPath() string
}
