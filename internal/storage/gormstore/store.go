// Package gormstore is a Provider built on GORM's sqlite driver, with the
// schema managed by AutoMigrate rather than the embedded SQL files.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
)

type Store struct {
	path string
	db   *gorm.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// logWriter routes GORM's printf-style output into the application log
type logWriter struct{}

func (logWriter) Printf(format string, args ...interface{}) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func (s *Store) open() error {
	dbLogger := gormlogger.New(logWriter{}, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(sqlite.Open(s.path+"?_busy_timeout=5000&_foreign_keys=1"), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	s.db = db
	return nil
}

func (s *Store) Init(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&habitRow{}, &entryRow{}); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitlit init' first")
	}
	return s.open()
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}

// SchemaVersion is always 0/0: AutoMigrate keeps no version table
func (s *Store) SchemaVersion(ctx context.Context) (int, int, error) {
	return 0, 0, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func dbErr(op string, err error) error {
	if apperrors.IsConnectionError(err) {
		return apperrors.Transient(fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	row := toHabitRow(habit)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return dbErr("create habit", err)
	}
	return nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	result := s.db.WithContext(ctx).Model(&habitRow{}).
		Where("id = ? AND owner_id = ?", habit.ID, habit.OwnerID).
		Updates(map[string]interface{}{
			"title":        habit.Title,
			"description":  habit.Description,
			"frequency":    string(habit.Frequency),
			"target_count": habit.TargetCount,
			"color":        habit.Color,
			"is_active":    habit.Active,
			"updated_at":   habit.UpdatedAt,
		})
	if result.Error != nil {
		return dbErr("update habit", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("habit", habit.ID)
	}
	return nil
}

func (s *Store) SetHabitActive(ctx context.Context, id, ownerID string, active bool) error {
	result := s.db.WithContext(ctx).Model(&habitRow{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return dbErr("update habit", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("habit", id)
	}
	return nil
}

func (s *Store) GetHabit(ctx context.Context, id, ownerID string) (models.Habit, error) {
	var row habitRow
	err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Habit{}, apperrors.NotFound("habit", id)
	}
	if err != nil {
		return models.Habit{}, dbErr("get habit", err)
	}
	return row.model(), nil
}

// summaryRow needs Habit exported and embedded; gorm skips unexported fields when scanning
type summaryRow struct {
	Habit habitRow `gorm:"embedded"`
	Total int
	Last  *string
}

func (s *Store) ListHabits(ctx context.Context, ownerID string, includeInactive bool) ([]models.HabitSummary, error) {
	q := s.db.WithContext(ctx).Table("habits AS h").
		Select("h.*, COUNT(e.id) AS total, MAX(e.entry_date) AS last").
		Joins("LEFT JOIN habit_entries e ON e.habit_id = h.id").
		Where("h.owner_id = ?", ownerID)
	if !includeInactive {
		q = q.Where("h.is_active = ?", true)
	}

	var rows []summaryRow
	if err := q.Group("h.id").Order("h.created_at DESC, h.rowid DESC").Scan(&rows).Error; err != nil {
		return nil, dbErr("list habits", err)
	}

	out := make([]models.HabitSummary, 0, len(rows))
	for _, r := range rows {
		summary := models.HabitSummary{Habit: r.Habit.model(), TotalEntries: r.Total}
		if r.Last != nil {
			d, err := civil.ParseDate(*r.Last)
			if err != nil {
				return nil, fmt.Errorf("habit %s: %w", r.Habit.ID, err)
			}
			summary.LastCompleted = &d
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *Store) UpsertEntry(ctx context.Context, entry models.HabitEntry) (models.HabitEntry, error) {
	var saved entryRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit habitRow
		err := tx.Select("is_active").Where("id = ?", entry.HabitID).First(&habit).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !habit.IsActive) {
			return apperrors.NotFound("habit", entry.HabitID)
		}
		if err != nil {
			return err
		}

		row := toEntryRow(entry)
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}, {Name: "entry_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed_count", "notes", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		return tx.Where("habit_id = ? AND entry_date = ?", row.HabitID, row.EntryDate).First(&saved).Error
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return models.HabitEntry{}, err
		}
		return models.HabitEntry{}, dbErr("upsert entry", err)
	}
	return saved.model()
}

func (s *Store) ListEntryDates(ctx context.Context, habitID string) ([]civil.Date, error) {
	var raw []string
	err := s.db.WithContext(ctx).Model(&entryRow{}).
		Where("habit_id = ?", habitID).
		Distinct("entry_date").Order("entry_date").
		Pluck("entry_date", &raw).Error
	if err != nil {
		return nil, dbErr("list entry dates", err)
	}

	dates := make([]civil.Date, 0, len(raw))
	for _, r := range raw {
		d, err := civil.ParseDate(r)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func (s *Store) ListEntries(ctx context.Context, habitID string, start, end civil.Date) ([]models.HabitEntry, error) {
	var rows []entryRow
	err := s.db.WithContext(ctx).
		Where("habit_id = ? AND entry_date BETWEEN ? AND ?", habitID, start.String(), end.String()).
		Order("entry_date").Find(&rows).Error
	if err != nil {
		return nil, dbErr("list entries", err)
	}

	out := make([]models.HabitEntry, 0, len(rows))
	for _, r := range rows {
		e, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
