package progress

import (
	"math"

	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// Rate returns round(count / denominator * 100), or 0 for an empty denominator.
// The denominator is a raw day count; a habit's frequency and target count do
// not enter into it, so weekly habits are measured against a daily yardstick.
func Rate(count, denominator int) int {
	if denominator <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(denominator) * 100))
}

// Aggregate computes windowed statistics for habits, in the order given.
// entries maps a habit id to that habit's entry dates, distinct and ascending;
// dates outside the window are ignored.
func Aggregate(habits []models.Habit, entries map[string][]civil.Date, w Window) models.Analytics {
	result := models.Analytics{
		Period:          w.Period,
		Days:            w.Days,
		Start:           w.Start,
		End:             w.End,
		PerHabit:        make([]models.HabitRate, 0, len(habits)),
		DailyIndicators: make([]models.DailyIndicator, 0, min(len(habits), constants.MaxIndicatorHabits)),
	}

	days := w.Dates()
	bestCount := -1
	for i, habit := range habits {
		dates := entries[habit.ID]
		mustBeStrictlyAscending(dates)

		present := make(map[civil.Date]struct{}, len(dates))
		for _, d := range dates {
			if w.Contains(d) {
				present[d] = struct{}{}
			}
		}
		count := len(present)

		result.TotalEntries += count
		result.PerHabit = append(result.PerHabit, models.HabitRate{
			HabitID: habit.ID,
			Title:   habit.Title,
			Rate:    Rate(count, w.Days),
			Count:   count,
		})

		// strict comparison keeps the earliest habit on ties
		if count > bestCount {
			bestCount = count
			result.BestHabitID = habit.ID
		}

		if i < constants.MaxIndicatorHabits {
			series := make([]int, len(days))
			for j, d := range days {
				if _, ok := present[d]; ok {
					series[j] = 1
				}
			}
			result.DailyIndicators = append(result.DailyIndicators, models.DailyIndicator{
				HabitID: habit.ID,
				Series:  series,
			})
		}
	}

	result.OverallRate = Rate(result.TotalEntries, len(habits)*w.Days)
	return result
}
