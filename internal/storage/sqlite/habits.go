package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

const habitColumns = `id, owner_id, title, description, frequency, target_count, color, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row rowScanner, extra ...interface{}) (models.Habit, error) {
	var h models.Habit
	var createdAt, updatedAt string

	dest := []interface{}{
		&h.ID, &h.OwnerID, &h.Title, &h.Description, &h.Frequency,
		&h.TargetCount, &h.Color, &h.Active, &createdAt, &updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Habit{}, err
	}

	var err error
	h.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	h.UpdatedAt, err = time.Parse(timeLayout, updatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse updated_at for habit %s: %w", h.ID, err)
	}
	return h, nil
}

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.OwnerID, habit.Title, habit.Description, string(habit.Frequency),
		habit.TargetCount, habit.Color, habit.Active,
		habit.CreatedAt.UTC().Format(timeLayout), habit.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return dbErr("failed to add habit", err)
	}
	return nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE habits SET
			title = ?, description = ?, frequency = ?, target_count = ?,
			color = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		habit.Title, habit.Description, string(habit.Frequency), habit.TargetCount,
		habit.Color, habit.Active, habit.UpdatedAt.UTC().Format(timeLayout),
		habit.ID, habit.OwnerID)
	if err != nil {
		return dbErr("failed to update habit", err)
	}
	return requireRow(result, habit.ID)
}

func (s *Store) SetHabitActive(ctx context.Context, id, ownerID string, active bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE habits SET is_active = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		active, time.Now().UTC().Format(timeLayout), id, ownerID)
	if err != nil {
		return dbErr("failed to update habit", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NotFound("habit", id)
	}
	return nil
}

func (s *Store) GetHabit(ctx context.Context, id, ownerID string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+habitColumns+` FROM habits WHERE id = ? AND owner_id = ?`, id, ownerID)

	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, apperrors.NotFound("habit", id)
		}
		return models.Habit{}, dbErr("failed to get habit", err)
	}
	return h, nil
}

func (s *Store) ListHabits(ctx context.Context, ownerID string, includeInactive bool) ([]models.HabitSummary, error) {
	query := `
		SELECT h.id, h.owner_id, h.title, h.description, h.frequency, h.target_count,
			h.color, h.is_active, h.created_at, h.updated_at,
			COUNT(e.id), MAX(e.entry_date)
		FROM habits h
		LEFT JOIN habit_entries e ON e.habit_id = h.id
		WHERE h.owner_id = ?`
	if !includeInactive {
		query += " AND h.is_active = 1"
	}
	query += " GROUP BY h.id ORDER BY h.created_at DESC, h.rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, dbErr("failed to list habits", err)
	}
	defer rows.Close()

	var habits []models.HabitSummary
	for rows.Next() {
		var total int
		var last sql.NullString
		h, err := scanHabit(rows, &total, &last)
		if err != nil {
			return nil, err
		}

		summary := models.HabitSummary{Habit: h, TotalEntries: total}
		if last.Valid {
			d, err := utils.DateFromDB(last.String)
			if err != nil {
				return nil, fmt.Errorf("habit %s: %w", h.ID, err)
			}
			summary.LastCompleted = &d
		}
		habits = append(habits, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("failed to list habits", err)
	}

	return habits, nil
}
