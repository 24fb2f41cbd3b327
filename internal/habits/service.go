// Package habits manages habit definitions and entry history on top of a storage.Provider.
package habits

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/progress"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

var (
	minDate = civil.Date{Year: 1, Month: 1, Day: 1}
	maxDate = civil.Date{Year: 9999, Month: 12, Day: 31}
)

type Service struct {
	store storage.Provider
	clock progress.Clock
}

func NewService(store storage.Provider, clock progress.Clock) *Service {
	return &Service{store: store, clock: clock}
}

func (s *Service) Create(ctx context.Context, ownerID string, in validation.HabitInput) (models.Habit, error) {
	if err := validation.ValidateHabit(&in); err != nil {
		return models.Habit{}, err
	}

	now := s.clock.Now()
	habit := models.Habit{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Frequency:   in.Frequency,
		TargetCount: in.TargetCount,
		Color:       in.Color,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Active != nil {
		habit.Active = *in.Active
	}

	if err := s.store.AddHabit(ctx, habit); err != nil {
		return models.Habit{}, err
	}
	logger.Debug("Created habit", "id", habit.ID, "title", habit.Title)
	return habit, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (models.Habit, error) {
	return s.store.GetHabit(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID string, includeInactive bool) ([]models.HabitSummary, error) {
	list, err := s.store.ListHabits(ctx, ownerID, includeInactive)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.HabitSummary{}
	}
	return list, nil
}

// Update replaces every editable field of the habit with in. Zero frequency,
// target and color fall back to their defaults; a nil Active keeps the current state.
func (s *Service) Update(ctx context.Context, id, ownerID string, in validation.HabitInput) (models.Habit, error) {
	habit, err := s.store.GetHabit(ctx, id, ownerID)
	if err != nil {
		return models.Habit{}, err
	}

	if err := validation.ValidateHabit(&in); err != nil {
		return models.Habit{}, err
	}

	habit.Title = in.Title
	habit.Description = in.Description
	habit.Frequency = in.Frequency
	habit.TargetCount = in.TargetCount
	habit.Color = in.Color
	if in.Active != nil {
		habit.Active = *in.Active
	}
	habit.UpdatedAt = s.clock.Now()

	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// Deactivate soft-deletes a habit; its entries are kept
func (s *Service) Deactivate(ctx context.Context, id, ownerID string) error {
	return s.setActive(ctx, id, ownerID, false)
}

func (s *Service) Restore(ctx context.Context, id, ownerID string) error {
	return s.setActive(ctx, id, ownerID, true)
}

func (s *Service) setActive(ctx context.Context, id, ownerID string, active bool) error {
	if err := s.store.SetHabitActive(ctx, id, ownerID, active); err != nil {
		return err
	}
	logger.Debug("Changed habit state", "id", id, "active", active)
	return nil
}

// History lists a habit's entries between start and end inclusive. Empty bounds are open.
func (s *Service) History(ctx context.Context, id, ownerID, start, end string) ([]models.HabitEntry, error) {
	if _, err := s.store.GetHabit(ctx, id, ownerID); err != nil {
		return nil, err
	}

	v := &apperrors.ValidationError{}
	from, to := minDate, maxDate
	if strings.TrimSpace(start) != "" {
		d, err := utils.ParseDate(start)
		if err != nil {
			v.Add("start_date", "must be a valid date (YYYY-MM-DD)")
		}
		from = d
	}
	if strings.TrimSpace(end) != "" {
		d, err := utils.ParseDate(end)
		if err != nil {
			v.Add("end_date", "must be a valid date (YYYY-MM-DD)")
		}
		to = d
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperrors.Invalid("end_date", "must not be before start_date")
	}

	entries, err := s.store.ListEntries(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.HabitEntry{}
	}
	return entries, nil
}

// Recent lists the entries of the last RecentEntryDays days, newest first
func (s *Service) Recent(ctx context.Context, id, ownerID string) ([]models.HabitEntry, error) {
	if _, err := s.store.GetHabit(ctx, id, ownerID); err != nil {
		return nil, err
	}
	from := s.clock.Today().AddDays(-constants.RecentEntryDays)
	entries, err := s.store.ListEntries(ctx, id, from, maxDate)
	if err != nil {
		return nil, err
	}
	out := make([]models.HabitEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
