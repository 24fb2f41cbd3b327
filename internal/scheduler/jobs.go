package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/progress"
	"github.com/julianstephens/habitlit/internal/storage"
)

const jobTimeout = 2 * time.Minute

// Backuper is the part of backup.Manager the nightly job needs
type Backuper interface {
	CreateBackup() (string, error)
}

// BackupJob snapshots the database; failures are logged, not fatal
func BackupJob(b Backuper) func() {
	return func() {
		path, err := b.CreateBackup()
		if err != nil {
			logger.Error("Scheduled backup failed", "error", err)
			return
		}
		logger.Info("Scheduled backup complete", "path", path)
	}
}

type DigestLine struct {
	HabitID       string
	Title         string
	CurrentStreak int
	LongestStreak int
	LoggedToday   bool
}

// Digest summarizes one owner's day
type Digest struct {
	OwnerID  string
	Date     string
	WeekRate int
	Lines    []DigestLine
}

// BuildDigest collects each active habit's streak and whether it was logged today
func BuildDigest(ctx context.Context, engine *progress.Engine, store storage.Provider, ownerID string) (Digest, error) {
	today := engine.Today()
	digest := Digest{OwnerID: ownerID, Date: today.String()}

	habits, err := store.ListHabits(ctx, ownerID, false)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to list habits: %w", err)
	}

	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		streak, err := engine.GetStreak(ctx, h.ID, ownerID)
		if err != nil {
			return Digest{}, err
		}
		// LastCompleted can be a future-dated entry, so ask for today directly
		todays, err := store.ListEntries(ctx, h.ID, today, today)
		if err != nil {
			return Digest{}, fmt.Errorf("failed to list entries: %w", err)
		}
		digest.Lines = append(digest.Lines, DigestLine{
			HabitID:       h.ID,
			Title:         h.Title,
			CurrentStreak: streak.CurrentStreak,
			LongestStreak: streak.LongestStreak,
			LoggedToday:   len(todays) > 0,
		})
		ids = append(ids, h.ID)
	}

	analytics, err := engine.GetAnalytics(ctx, ownerID, ids, constants.PeriodWeek)
	if err != nil {
		return Digest{}, err
	}
	digest.WeekRate = analytics.OverallRate
	return digest, nil
}

// DigestJob logs the daily digest for ownerID
func DigestJob(engine *progress.Engine, store storage.Provider, ownerID string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		digest, err := BuildDigest(ctx, engine, store, ownerID)
		if err != nil {
			logger.Error("Daily digest failed", "owner", ownerID, "error", err)
			return
		}

		pending := 0
		for _, line := range digest.Lines {
			if !line.LoggedToday {
				pending++
			}
			logger.Info("Habit status", "habit", line.Title, "streak", line.CurrentStreak, "logged_today", line.LoggedToday)
		}
		logger.Info("Daily digest", "owner", ownerID, "date", digest.Date, "habits", len(digest.Lines),
			"pending", pending, "week_rate", digest.WeekRate)
	}
}
