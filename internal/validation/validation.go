package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/utils"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// HabitInput is the explicit request body for creating or updating a habit.
// Zero values for Frequency, TargetCount and Color mean "use the default".
type HabitInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Frequency   constants.Frequency `json:"frequency"`
	TargetCount int                 `json:"target_count"`
	Color       string              `json:"color"`
	Active      *bool               `json:"is_active,omitempty"`
}

// Normalize trims text fields and fills in defaults
func (in *HabitInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Color = strings.TrimSpace(in.Color)
	if in.Frequency == "" {
		in.Frequency = constants.DefaultFrequency
	}
	if in.TargetCount == 0 {
		in.TargetCount = constants.DefaultTargetCount
	}
	if in.Color == "" {
		in.Color = constants.DefaultColor
	}
}

// ValidateHabit normalizes the input and reports every out-of-range field
func ValidateHabit(in *HabitInput) error {
	in.Normalize()

	v := &apperrors.ValidationError{}
	titleLen := utf8.RuneCountInString(in.Title)
	if titleLen == 0 || titleLen > constants.MaxTitleLen {
		v.Add("title", "must be between 1 and %d characters", constants.MaxTitleLen)
	}
	if utf8.RuneCountInString(in.Description) > constants.MaxDescriptionLen {
		v.Add("description", "must be at most %d characters", constants.MaxDescriptionLen)
	}
	if !ValidFrequency(in.Frequency) {
		v.Add("frequency", "must be either %s or %s", constants.FrequencyDaily, constants.FrequencyWeekly)
	}
	if in.TargetCount < constants.MinTargetCount || in.TargetCount > constants.MaxTargetCount {
		v.Add("target_count", "must be between %d and %d", constants.MinTargetCount, constants.MaxTargetCount)
	}
	if !hexColor.MatchString(in.Color) {
		v.Add("color", "must be a valid hex code")
	}
	return v.OrNil()
}

// ValidFrequency reports whether f is a known habit cadence
func ValidFrequency(f constants.Frequency) bool {
	return f == constants.FrequencyDaily || f == constants.FrequencyWeekly
}

// EntryInput is the explicit request body for logging a completion
type EntryInput struct {
	Date  string `json:"entry_date"`
	Count int    `json:"completed_count"`
	Notes string `json:"notes"`
}

// ValidateEntry checks an entry request and resolves its date. An empty date
// resolves to today. Transports apply the default count of 1 before calling this.
func ValidateEntry(in EntryInput, today civil.Date) (civil.Date, error) {
	v := &apperrors.ValidationError{}

	date := today
	if strings.TrimSpace(in.Date) != "" {
		d, err := utils.ParseDate(in.Date)
		if err != nil {
			v.Add("entry_date", "must be a valid date (YYYY-MM-DD)")
		} else {
			date = d
		}
	}
	if in.Count < 1 {
		v.Add("completed_count", "must be a positive integer")
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Notes)) > constants.MaxNotesLen {
		v.Add("notes", "must be at most %d characters", constants.MaxNotesLen)
	}

	if err := v.OrNil(); err != nil {
		return civil.Date{}, err
	}
	return date, nil
}
