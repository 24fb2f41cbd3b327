package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/backend"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing database file before initialization."`
	Source string `help:"Database path or PostgreSQL URL to copy habits and entries from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if !ctx.FileBacked() {
			return fmt.Errorf("--force is only supported for file-based drivers (current: %s)", ctx.Driver)
		}
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" && samePath(c.Source, dbPath) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	bg := context.Background()
	if err := ctx.Store.Init(bg); err != nil {
		return err
	}
	ctx.Printf("%s Initialized habitlit storage at: %s\n", cli.Success("✓"), ctx.Store.GetConfigPath())

	if c.Source == "" {
		return nil
	}

	src, err := backend.Open(backend.Options{Config: c.Source})
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	if err := src.Load(bg); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	ctx.Printf("Copying data from: %s\n", src.GetConfigPath())
	habitCount, entryCount, err := copyHabits(bg, src, ctx.Store, ctx.Owner)
	if err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	ctx.Printf("%s Copied %d habit(s) and %d entries.\n", cli.Success("✓"), habitCount, entryCount)
	return nil
}

// copyHabits moves every habit of owner, inactive ones included, along with
// its full entry history. Entries can only be written against an active
// habit, so deactivation is replayed after the entries land.
func copyHabits(ctx context.Context, src, dst storage.Provider, owner string) (int, int, error) {
	summaries, err := src.ListHabits(ctx, owner, true)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list source habits: %w", err)
	}

	entries := 0
	for _, s := range summaries {
		habit := s.Habit
		wasActive := habit.Active
		habit.Active = true
		if err := dst.AddHabit(ctx, habit); err != nil {
			return 0, entries, fmt.Errorf("failed to add habit %q: %w", habit.Title, err)
		}

		dates, err := src.ListEntryDates(ctx, habit.ID)
		if err != nil {
			return 0, entries, fmt.Errorf("failed to read history of %q: %w", habit.Title, err)
		}
		if len(dates) > 0 {
			history, err := src.ListEntries(ctx, habit.ID, dates[0], dates[len(dates)-1])
			if err != nil {
				return 0, entries, fmt.Errorf("failed to read entries of %q: %w", habit.Title, err)
			}
			for _, e := range history {
				if _, err := dst.UpsertEntry(ctx, e); err != nil {
					return 0, entries, fmt.Errorf("failed to copy entry %s of %q: %w", e.Date, habit.Title, err)
				}
				entries++
			}
		}

		if !wasActive {
			if err := dst.SetHabitActive(ctx, habit.ID, owner, false); err != nil {
				return 0, entries, fmt.Errorf("failed to deactivate %q: %w", habit.Title, err)
			}
		}
	}
	return len(summaries), entries, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
