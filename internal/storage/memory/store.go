// Package memory is a process-local Provider. It has no native upsert, so it
// emulates insert-or-update on (habit id, date) under a single mutex.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
)

type entryKey struct {
	habitID string
	date    civil.Date
}

type Store struct {
	mu      sync.RWMutex
	habits  map[string]models.Habit
	order   []string
	entries map[entryKey]models.HabitEntry
}

func NewStore() *Store {
	return &Store{
		habits:  make(map[string]models.Habit),
		entries: make(map[entryKey]models.HabitEntry),
	}
}

func (s *Store) Init(ctx context.Context) error { return nil }
func (s *Store) Load(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }
func (s *Store) GetConfigPath() string          { return "memory" }

func (s *Store) SchemaVersion(ctx context.Context) (int, int, error) {
	return 0, 0, nil
}

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[habit.ID]; !ok {
		s.order = append(s.order, habit.ID)
	}
	s.habits[habit.ID] = habit
	return nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.habits[habit.ID]
	if !ok || existing.OwnerID != habit.OwnerID {
		return apperrors.NotFound("habit", habit.ID)
	}
	habit.CreatedAt = existing.CreatedAt
	s.habits[habit.ID] = habit
	return nil
}

func (s *Store) SetHabitActive(ctx context.Context, id, ownerID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok || h.OwnerID != ownerID {
		return apperrors.NotFound("habit", id)
	}
	h.Active = active
	h.UpdatedAt = time.Now().UTC()
	s.habits[id] = h
	return nil
}

func (s *Store) ListHabits(ctx context.Context, ownerID string, includeInactive bool) ([]models.HabitSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.HabitSummary
	// reverse insertion order breaks CreatedAt ties, like rowid DESC in sqlite
	for i := len(s.order) - 1; i >= 0; i-- {
		h := s.habits[s.order[i]]
		if h.OwnerID != ownerID || (!h.Active && !includeInactive) {
			continue
		}
		summary := models.HabitSummary{Habit: h}
		for k := range s.entries {
			if k.habitID != h.ID {
				continue
			}
			summary.TotalEntries++
			if summary.LastCompleted == nil || summary.LastCompleted.Before(k.date) {
				d := k.date
				summary.LastCompleted = &d
			}
		}
		out = append(out, summary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetHabit(ctx context.Context, id, ownerID string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok || h.OwnerID != ownerID {
		return models.Habit{}, apperrors.NotFound("habit", id)
	}
	return h, nil
}

func (s *Store) UpsertEntry(ctx context.Context, entry models.HabitEntry) (models.HabitEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.habits[entry.HabitID]
	if !ok || !h.Active {
		return models.HabitEntry{}, apperrors.NotFound("habit", entry.HabitID)
	}

	key := entryKey{habitID: entry.HabitID, date: entry.Date}
	if existing, ok := s.entries[key]; ok {
		existing.CompletedCount = entry.CompletedCount
		existing.Notes = entry.Notes
		existing.UpdatedAt = entry.UpdatedAt
		s.entries[key] = existing
		return existing, nil
	}
	s.entries[key] = entry
	return entry, nil
}

func (s *Store) ListEntryDates(ctx context.Context, habitID string) ([]civil.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var dates []civil.Date
	for k := range s.entries {
		if k.habitID == habitID {
			dates = append(dates, k.date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (s *Store) ListEntries(ctx context.Context, habitID string, start, end civil.Date) ([]models.HabitEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.HabitEntry
	for k, e := range s.entries {
		if k.habitID == habitID && !k.date.Before(start) && !k.date.After(end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
