package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cloud.google.com/go/civil"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

const entryColumns = `id, habit_id, owner_id, completed_count, entry_date, notes, created_at, updated_at`

func scanEntry(row rowScanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	var date time.Time
	if err := row.Scan(&e.ID, &e.HabitID, &e.OwnerID, &e.CompletedCount, &date, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return models.HabitEntry{}, err
	}
	d, err := utils.DateFromDB(date)
	if err != nil {
		return models.HabitEntry{}, err
	}
	e.Date = d
	return e, nil
}

// UpsertEntry relies on the unique (habit_id, entry_date) constraint; concurrent
// writers for the same day serialize on the conflicting row.
func (s *Store) UpsertEntry(ctx context.Context, entry models.HabitEntry) (models.HabitEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.HabitEntry{}, dbErr("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	// FOR SHARE keeps the habit from being deactivated until the entry commits
	var active bool
	err = tx.QueryRowContext(ctx, `SELECT is_active FROM habits WHERE id = $1 FOR SHARE`, entry.HabitID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !active) {
		return models.HabitEntry{}, apperrors.NotFound("habit", entry.HabitID)
	}
	if err != nil {
		return models.HabitEntry{}, dbErr("failed to check habit", err)
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO habit_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (habit_id, entry_date) DO UPDATE SET
			completed_count = EXCLUDED.completed_count,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING `+entryColumns,
		entry.ID, entry.HabitID, entry.OwnerID, entry.CompletedCount, entry.Date.String(),
		entry.Notes, entry.CreatedAt, entry.UpdatedAt)

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
		SELECT DISTINCT entry_date FROM habit_entries WHERE habit_id = $1 ORDER BY entry_date`, habitID)
	if err != nil {
		return nil, dbErr("failed to list entry dates", err)
	}
	defer rows.Close()

	var dates []civil.Date
	for rows.Next() {
		var raw time.Time
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
		WHERE habit_id = $1 AND entry_date BETWEEN $2 AND $3
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
