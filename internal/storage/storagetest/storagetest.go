// Package storagetest holds the behaviour every storage.Provider must share.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

const Owner = "owner-1"

// Factory returns a ready-to-use, empty provider. Cleanup is the factory's job.
type Factory func(t *testing.T) storage.Provider

func Run(t *testing.T, newStore Factory) {
	t.Run("HabitLifecycle", func(t *testing.T) { testHabitLifecycle(t, newStore(t)) })
	t.Run("OwnerIsolation", func(t *testing.T) { testOwnerIsolation(t, newStore(t)) })
	t.Run("UpsertOverwrites", func(t *testing.T) { testUpsertOverwrites(t, newStore(t)) })
	t.Run("UpsertRejectsInactive", func(t *testing.T) { testUpsertRejectsInactive(t, newStore(t)) })
	t.Run("ConcurrentUpsert", func(t *testing.T) { testConcurrentUpsert(t, newStore(t)) })
	t.Run("ListEntries", func(t *testing.T) { testListEntries(t, newStore(t)) })
	t.Run("ListHabitsSummary", func(t *testing.T) { testListHabitsSummary(t, newStore(t)) })
	t.Run("ListHabitsNewestFirst", func(t *testing.T) { testListHabitsNewestFirst(t, newStore(t)) })
	t.Run("SetHabitActiveTouchesUpdatedAt", func(t *testing.T) { testSetHabitActiveTouchesUpdatedAt(t, newStore(t)) })
}

func Date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func NewHabit(id, owner string) models.Habit {
	now := time.Now().UTC().Truncate(time.Second)
	return models.Habit{
		ID:          id,
		OwnerID:     owner,
		Title:       "Habit " + id,
		Frequency:   constants.FrequencyDaily,
		TargetCount: 1,
		Color:       constants.DefaultColor,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewEntry(habitID, date string, count int) models.HabitEntry {
	now := time.Now().UTC().Truncate(time.Second)
	return models.HabitEntry{
		ID:             uuid.New().String(),
		HabitID:        habitID,
		OwnerID:        Owner,
		CompletedCount: count,
		Date:           Date(date),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func mustAdd(t *testing.T, s storage.Provider, h models.Habit) {
	t.Helper()
	if err := s.AddHabit(context.Background(), h); err != nil {
		t.Fatalf("AddHabit(%s) failed: %v", h.ID, err)
	}
}

func testHabitLifecycle(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	h := NewHabit(uuid.New().String(), Owner)
	mustAdd(t, s, h)

	got, err := s.GetHabit(ctx, h.ID, Owner)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Title != h.Title || got.Frequency != h.Frequency || !got.Active || got.Color != h.Color {
		t.Errorf("GetHabit = %+v, want %+v", got, h)
	}

	h.Title = "Renamed"
	h.TargetCount = 5
	if err := s.UpdateHabit(ctx, h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	got, _ = s.GetHabit(ctx, h.ID, Owner)
	if got.Title != "Renamed" || got.TargetCount != 5 {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := s.SetHabitActive(ctx, h.ID, Owner, false); err != nil {
		t.Fatalf("SetHabitActive failed: %v", err)
	}
	got, err = s.GetHabit(ctx, h.ID, Owner)
	if err != nil {
		t.Fatalf("inactive habit should still be readable: %v", err)
	}
	if got.Active {
		t.Error("habit still active after deactivation")
	}

	active, err := s.ListHabits(ctx, Owner, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("inactive habit listed: %d rows", len(active))
	}
	all, err := s.ListHabits(ctx, Owner, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("includeInactive listing = %d rows, want 1", len(all))
	}

	missing := NewHabit("missing", Owner)
	if err := s.UpdateHabit(ctx, missing); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("UpdateHabit(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.SetHabitActive(ctx, "missing", Owner, true); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("SetHabitActive(missing) error = %v, want ErrNotFound", err)
	}
}

func testOwnerIsolation(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	h := NewHabit(uuid.New().String(), Owner)
	mustAdd(t, s, h)

	if _, err := s.GetHabit(ctx, h.ID, "intruder"); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit with wrong owner error = %v, want ErrNotFound", err)
	}
	if err := s.SetHabitActive(ctx, h.ID, "intruder", false); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("SetHabitActive with wrong owner error = %v, want ErrNotFound", err)
	}
	list, err := s.ListHabits(ctx, "intruder", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("intruder sees %d habits", len(list))
	}
}

func testUpsertOverwrites(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	h := NewHabit(uuid.New().String(), Owner)
	mustAdd(t, s, h)

	first, err := s.UpsertEntry(ctx, NewEntry(h.ID, "2024-01-10", 1))
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	again := NewEntry(h.ID, "2024-01-10", 3)
	again.Notes = "second"
	again.UpdatedAt = first.UpdatedAt.Add(time.Hour)
	second, err := s.UpsertEntry(ctx, again)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert replaced the entry id: %s -> %s", first.ID, second.ID)
	}
	if second.CompletedCount != 3 || second.Notes != "second" {
		t.Errorf("upsert did not overwrite: %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.Equal(again.UpdatedAt) {
		t.Errorf("updated_at = %v, want %v", second.UpdatedAt, again.UpdatedAt)
	}

	dates, err := s.ListEntryDates(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 1 || dates[0] != Date("2024-01-10") {
		t.Errorf("dates = %v, want [2024-01-10]", dates)
	}
}

func testUpsertRejectsInactive(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	h := NewHabit(uuid.New().String(), Owner)
	h.Active = false
	mustAdd(t, s, h)

	if _, err := s.UpsertEntry(ctx, NewEntry(h.ID, "2024-01-10", 1)); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("upsert on inactive habit error = %v, want ErrNotFound", err)
	}
	if _, err := s.UpsertEntry(ctx, NewEntry("missing", "2024-01-10", 1)); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("upsert on missing habit error = %v, want ErrNotFound", err)
	}
}

func testConcurrentUpsert(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	h := NewHabit(uuid.New().String(), Owner)
	mustAdd(t, s, h)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(count int) {
			defer wg.Done()
			if _, err := s.UpsertEntry(ctx, NewEntry(h.ID, "2024-03-01", count)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent upsert failed: %v", err)
	}

	entries, err := s.ListEntries(ctx, h.ID, Date("2024-03-01"), Date("2024-03-01"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected one entry after concurrent upserts, got %d", len(entries))
	}
}

func testListEntries(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	h := NewHabit(uuid.New().String(), Owner)
	mustAdd(t, s, h)

	// Insert out of order to check the store sorts
	for _, d := range []string{"2024-01-05", "2023-12-31", "2024-01-01", "2024-01-03", "2024-02-29"} {
		if _, err := s.UpsertEntry(ctx, NewEntry(h.ID, d, 1)); err != nil {
			t.Fatalf("upsert %s failed: %v", d, err)
		}
	}

	dates, err := s.ListEntryDates(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2023-12-31", "2024-01-01", "2024-01-03", "2024-01-05", "2024-02-29"}
	if fmt.Sprint(dates) != fmt.Sprint(toDates(want)) {
		t.Errorf("ListEntryDates = %v, want %v", dates, want)
	}

	ranged, err := s.ListEntries(ctx, h.ID, Date("2024-01-01"), Date("2024-01-05"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ranged) != 3 || ranged[0].Date != Date("2024-01-01") || ranged[2].Date != Date("2024-01-05") {
		t.Errorf("ListEntries inclusive range = %+v", ranged)
	}

	empty, err := s.ListEntryDates(ctx, "no-such-habit")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown habit has dates: %v", empty)
	}
}

func testListHabitsSummary(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	older := NewHabit("older-"+uuid.New().String(), Owner)
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer := NewHabit("newer-"+uuid.New().String(), Owner)
	mustAdd(t, s, older)
	mustAdd(t, s, newer)

	for _, d := range []string{"2024-01-01", "2024-01-04"} {
		if _, err := s.UpsertEntry(ctx, NewEntry(older.ID, d, 1)); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListHabits(ctx, Owner, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("ListHabits = %d rows, want 2", len(list))
	}
	if list[0].ID != newer.ID {
		t.Errorf("expected newest habit first, got %s", list[0].ID)
	}
	if list[1].TotalEntries != 2 || list[1].LastCompleted == nil || *list[1].LastCompleted != Date("2024-01-04") {
		t.Errorf("summary = %+v", list[1])
	}
	if list[0].TotalEntries != 0 || list[0].LastCompleted != nil {
		t.Errorf("empty habit summary = %+v", list[0])
	}
}

// Creation time decides the order, not the order habits were added in
func testListHabitsNewestFirst(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	newer := NewHabit("newer-"+uuid.New().String(), Owner)
	older := NewHabit("older-"+uuid.New().String(), Owner)
	older.CreatedAt = older.CreatedAt.Add(-24 * time.Hour)
	mustAdd(t, s, newer)
	mustAdd(t, s, older)

	list, err := s.ListHabits(ctx, Owner, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("ListHabits order = %+v, want newer then older", list)
	}
	if list[0].Title != newer.Title || !list[0].Active {
		t.Errorf("summary lost habit fields: %+v", list[0])
	}
}

func testSetHabitActiveTouchesUpdatedAt(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	h := NewHabit(uuid.New().String(), Owner)
	h.UpdatedAt = h.UpdatedAt.Add(-time.Hour)
	mustAdd(t, s, h)

	if err := s.SetHabitActive(ctx, h.ID, Owner, false); err != nil {
		t.Fatalf("SetHabitActive failed: %v", err)
	}
	got, err := s.GetHabit(ctx, h.ID, Owner)
	if err != nil {
		t.Fatal(err)
	}
	if got.Active {
		t.Error("habit should be inactive")
	}
	if !got.UpdatedAt.After(h.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want later than %v", got.UpdatedAt, h.UpdatedAt)
	}
}

func toDates(ss []string) []civil.Date {
	out := make([]civil.Date, len(ss))
	for i, s := range ss {
		out[i] = Date(s)
	}
	return out
}
