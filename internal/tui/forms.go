package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/validation"
)

// HabitFormModel holds the add-habit form fields
type HabitFormModel struct {
	Title       string
	Description string
	Frequency   constants.Frequency
	Target      string
	Color       string
}

func newHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Frequency: constants.DefaultFrequency,
		Target:    strconv.Itoa(constants.DefaultTargetCount),
		Color:     constants.DefaultColor,
	}
}

// Input converts the form into a create request; validation happens in the service
func (fm *HabitFormModel) Input() (validation.HabitInput, error) {
	target, err := strconv.Atoi(strings.TrimSpace(fm.Target))
	if err != nil {
		return validation.HabitInput{}, fmt.Errorf("target must be a number")
	}
	return validation.HabitInput{
		Title:       fm.Title,
		Description: fm.Description,
		Frequency:   fm.Frequency,
		TargetCount: target,
		Color:       fm.Color,
	}, nil
}

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					if len([]rune(strings.TrimSpace(s))) > constants.MaxTitleLen {
						return fmt.Errorf("title must be at most %d characters", constants.MaxTitleLen)
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Description("Optional").
				Value(&fm.Description),
			huh.NewSelect[constants.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", constants.FrequencyDaily),
					huh.NewOption("Weekly", constants.FrequencyWeekly),
				).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Target per period").
				Value(&fm.Target).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if i < constants.MinTargetCount || i > constants.MaxTargetCount {
						return fmt.Errorf("target must be %d-%d", constants.MinTargetCount, constants.MaxTargetCount)
					}
					return nil
				}),
			huh.NewInput().
				Title("Color (#RRGGBB)").
				Value(&fm.Color),
		),
	).WithTheme(huh.ThemeDracula())
}
