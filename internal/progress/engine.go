package progress

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
)

// Engine records habit completions and derives streaks and analytics from them.
// It holds no state between calls; every result is recomputed from the entry log.
type Engine struct {
	log   storage.EntryLog
	clock Clock
}

// NewEngine wires an engine to an entry log owned by the caller
func NewEngine(log storage.EntryLog, clock Clock) *Engine {
	return &Engine{log: log, clock: clock}
}

// Today returns the engine's notion of the current calendar date
func (e *Engine) Today() civil.Date {
	return e.clock.Today()
}

// LogEntryInput is the request to record a completion for one day
type LogEntryInput struct {
	HabitID string
	OwnerID string
	// Date is YYYY-MM-DD; empty means today
	Date  string
	Count int
	Notes string
}

// LogEntry records that a habit was completed on a day. Logging the same day
// again overwrites the count and notes, so the call is safe to retry.
func (e *Engine) LogEntry(ctx context.Context, in LogEntryInput) (models.HabitEntry, error) {
	date, err := validation.ValidateEntry(validation.EntryInput{
		Date:  in.Date,
		Count: in.Count,
		Notes: in.Notes,
	}, e.clock.Today())
	if err != nil {
		return models.HabitEntry{}, err
	}

	habit, err := e.log.GetHabit(ctx, in.HabitID, in.OwnerID)
	if err != nil {
		return models.HabitEntry{}, err
	}
	if !habit.Active {
		return models.HabitEntry{}, apperrors.NotFound("habit", in.HabitID)
	}

	now := e.clock.Now()
	entry, err := e.log.UpsertEntry(ctx, models.HabitEntry{
		ID:             uuid.New().String(),
		HabitID:        habit.ID,
		OwnerID:        habit.OwnerID,
		CompletedCount: in.Count,
		Date:           date,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return models.HabitEntry{}, fmt.Errorf("failed to log entry: %w", err)
	}

	logger.Debug("Logged habit entry", "habit", habit.ID, "date", entry.Date, "count", entry.CompletedCount)
	return entry, nil
}

// GetStreak computes a habit's current and longest streak over its full history.
// Deactivated habits still report their history.
func (e *Engine) GetStreak(ctx context.Context, habitID, ownerID string) (models.Streak, error) {
	if _, err := e.log.GetHabit(ctx, habitID, ownerID); err != nil {
		return models.Streak{}, err
	}

	dates, err := e.log.ListEntryDates(ctx, habitID)
	if err != nil {
		return models.Streak{}, fmt.Errorf("failed to list entry dates: %w", err)
	}

	current, longest := Streaks(dates, e.clock.Today())
	return models.Streak{
		HabitID:          habitID,
		CurrentStreak:    current,
		LongestStreak:    longest,
		TotalCompletions: len(dates),
	}, nil
}

// GetAnalytics computes completion statistics for habitIDs over a trailing period.
// The order of habitIDs decides best-habit ties and which habits get indicator series.
func (e *Engine) GetAnalytics(ctx context.Context, ownerID string, habitIDs []string, period constants.Period) (models.Analytics, error) {
	window, err := ResolvePeriod(period, e.clock.Today())
	if err != nil {
		return models.Analytics{}, err
	}

	habits := make([]models.Habit, 0, len(habitIDs))
	entries := make(map[string][]civil.Date, len(habitIDs))
	seen := make(map[string]bool, len(habitIDs))
	for _, id := range habitIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		habit, err := e.log.GetHabit(ctx, id, ownerID)
		if err != nil {
			return models.Analytics{}, err
		}
		rows, err := e.log.ListEntries(ctx, id, window.Start, window.End)
		if err != nil {
			return models.Analytics{}, fmt.Errorf("failed to list entries for habit %s: %w", id, err)
		}

		dates := make([]civil.Date, 0, len(rows))
		for _, r := range rows {
			dates = append(dates, r.Date)
		}
		habits = append(habits, habit)
		entries[id] = dates
	}

	return Aggregate(habits, entries, window), nil
}
