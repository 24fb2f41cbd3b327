package constants

// Frequency is the cadence a habit is meant to be performed at
type Frequency string

// Period is a symbolic analytics window
type Period string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"

	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"

	// Habit field limits
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
	MaxNotesLen       = 500
	MinTargetCount    = 1
	MaxTargetCount    = 100

	DefaultTargetCount = 1
	DefaultColor       = "#3B82F6"
	DefaultFrequency   = FrequencyDaily
	DefaultPeriod      = PeriodWeek

	// MaxIndicatorHabits bounds the number of habits that get a daily indicator series
	MaxIndicatorHabits = 5

	// RecentEntryDays is how far back a single-habit lookup reports entries
	RecentEntryDays = 30
)
