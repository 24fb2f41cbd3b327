package models

import (
	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitlit/internal/constants"
)

// Streak summarizes a habit's consecutive-day completion history
type Streak struct {
	HabitID          string `json:"habit_id"`
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	TotalCompletions int    `json:"total_completions"`
}

// HabitRate is one habit's share of an analytics window
type HabitRate struct {
	HabitID string `json:"habit_id"`
	Title   string `json:"title"`
	Rate    int    `json:"rate"`
	Count   int    `json:"count"`
}

// DailyIndicator is a dense 0/1 completion series, one element per day of the window
type DailyIndicator struct {
	HabitID string `json:"habit_id"`
	Series  []int  `json:"series"`
}

// Analytics holds windowed completion statistics across several habits
type Analytics struct {
	Period          constants.Period `json:"period"`
	Days            int              `json:"days"`
	Start           civil.Date       `json:"start"`
	End             civil.Date       `json:"end"`
	OverallRate     int              `json:"overall_rate"`
	TotalEntries    int              `json:"total_entries"`
	BestHabitID     string           `json:"best_habit_id,omitempty"`
	PerHabit        []HabitRate      `json:"per_habit"`
	DailyIndicators []DailyIndicator `json:"daily_indicators"`
}
