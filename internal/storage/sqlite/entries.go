package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

const entryColumns = `id, habit_id, owner_id, completed_count, entry_date, notes, created_at, updated_at`

func scanEntry(row rowScanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	var date, createdAt, updatedAt string

	if err := row.Scan(&e.ID, &e.HabitID, &e.OwnerID, &e.CompletedCount, &date, &e.Notes, &createdAt, &updatedAt); err != nil {
		return models.HabitEntry{}, err
	}

	var err error
	if e.Date, err = utils.DateFromDB(date); err != nil {
		return models.HabitEntry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return models.HabitEntry{}, fmt.Errorf("failed to parse created_at for entry %s: %w", e.ID, err)
	}
	if e.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return models.HabitEntry{}, fmt.Errorf("failed to parse updated_at for entry %s: %w", e.ID, err)
	}
	return e, nil
}

// UpsertEntry inserts the day's entry or overwrites its count and notes.
// The unique (habit_id, entry_date) index makes the write a single atomic statement.
func (s *Store) UpsertEntry(ctx context.Context, entry models.HabitEntry) (models.HabitEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.HabitEntry{}, dbErr("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var active bool
	err = tx.QueryRowContext(ctx, `SELECT is_active FROM habits WHERE id = ?`, entry.HabitID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !active) {
		return models.HabitEntry{}, apperrors.NotFound("habit", entry.HabitID)
	}
	if err != nil {
		return models.HabitEntry{}, dbErr("failed to check habit", err)
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO habit_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, entry_date) DO UPDATE SET
			completed_count = excluded.completed_count,
			notes = excluded.notes,
			updated_at = excluded.updated_at
		RETURNING `+entryColumns,
		entry.ID, entry.HabitID, entry.OwnerID, entry.CompletedCount, entry.Date.String(),
		entry.Notes, entry.CreatedAt.UTC().Format(timeLayout), entry.UpdatedAt.UTC().Format(timeLayout))

	saved, err := scanEntry(row)
	if err != nil {
		return models.HabitEntry{}, dbErr("failed to upsert entry", err)
	}

	if err := tx.Commit(); err != nil {
		return models.HabitEntry{}, dbErr("failed to commit entry", err)
	}
	return saved, nil
}

func (s *Store) ListEntryDates(ctx context.Context, habitID string) ([]civil.Date, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT entry_date FROM habit_entries WHERE habit_id = ? ORDER BY entry_date`, habitID)
	if err != nil {
		return nil, dbErr("failed to list entry dates", err)
	}
	defer rows.Close()

	var dates []civil.Date
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := utils.DateFromDB(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("failed to list entry dates", err)
	}
	return dates, nil
}

func (s *Store) ListEntries(ctx context.Context, habitID string, start, end civil.Date) ([]models.HabitEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM habit_entries
		WHERE habit_id = ? AND entry_date BETWEEN ? AND ?
		ORDER BY entry_date`,
		habitID, start.String(), end.String())
	if err != nil {
		return nil, dbErr("failed to list entries", err)
	}
	defer rows.Close()

	var entries []models.HabitEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("failed to list entries", err)
	}
	return entries, nil
}
