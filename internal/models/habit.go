package models

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitlit/internal/constants"
)

// Habit represents a recurring practice owned by a single user
type Habit struct {
	ID          string              `json:"id"`
	OwnerID     string              `json:"owner_id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Frequency   constants.Frequency `json:"frequency"`
	TargetCount int                 `json:"target_count"`
	Color       string              `json:"color"`
	Active      bool                `json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// HabitEntry records that a habit was completed on one calendar day.
// There is at most one entry per (HabitID, Date).
type HabitEntry struct {
	ID             string     `json:"id"`
	HabitID        string     `json:"habit_id"`
	OwnerID        string     `json:"owner_id"`
	CompletedCount int        `json:"completed_count"`
	Date           civil.Date `json:"entry_date"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HabitSummary is a habit together with its completion totals, as shown in listings
type HabitSummary struct {
	Habit
	TotalEntries  int         `json:"total_entries"`
	LastCompleted *civil.Date `json:"last_completed,omitempty"`
}
