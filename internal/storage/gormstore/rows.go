package gormstore

import (
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

type habitRow struct {
	ID          string `gorm:"primaryKey"`
	OwnerID     string `gorm:"index:idx_habits_owner;not null"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"size:1000"`
	Frequency   string `gorm:"not null"`
	TargetCount int    `gorm:"not null"`
	Color       string `gorm:"size:7"`
	IsActive    bool   `gorm:"index:idx_habits_owner;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (habitRow) TableName() string { return "habits" }

type entryRow struct {
	ID             string `gorm:"primaryKey"`
	HabitID        string `gorm:"uniqueIndex:idx_habit_entries_day;not null"`
	OwnerID        string `gorm:"not null"`
	CompletedCount int    `gorm:"not null"`
	EntryDate      string `gorm:"uniqueIndex:idx_habit_entries_day;size:10;not null"`
	Notes          string `gorm:"size:500"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (entryRow) TableName() string { return "habit_entries" }

func toHabitRow(h models.Habit) habitRow {
	return habitRow{
		ID:          h.ID,
		OwnerID:     h.OwnerID,
		Title:       h.Title,
		Description: h.Description,
		Frequency:   string(h.Frequency),
		TargetCount: h.TargetCount,
		Color:       h.Color,
		IsActive:    h.Active,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

func (r habitRow) model() models.Habit {
	return models.Habit{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Frequency:   constants.Frequency(r.Frequency),
		TargetCount: r.TargetCount,
		Color:       r.Color,
		Active:      r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toEntryRow(e models.HabitEntry) entryRow {
	return entryRow{
		ID:             e.ID,
		HabitID:        e.HabitID,
		OwnerID:        e.OwnerID,
		CompletedCount: e.CompletedCount,
		EntryDate:      e.Date.String(),
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (r entryRow) model() (models.HabitEntry, error) {
	d, err := utils.ParseDate(r.EntryDate)
	if err != nil {
		return models.HabitEntry{}, err
	}
	return models.HabitEntry{
		ID:             r.ID,
		HabitID:        r.HabitID,
		OwnerID:        r.OwnerID,
		CompletedCount: r.CompletedCount,
		Date:           d,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}
