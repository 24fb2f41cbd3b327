package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(context.Context, *cli.Context) error

	// needsDB checks are skipped when the store is unreachable
	needsDB  bool
	// warnOnly failures are reported but do not fail the command
	warnOnly bool
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Habit integrity", run: checkHabitsIntegrity, needsDB: true},
	{name: "Entry dates", run: checkEntryDates, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	bg := context.Background()
	failed := 0
	dbReachable := true

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(bg, ctx)
		switch {
		case err == nil:
			ctx.Printf("%s %s: OK\n", cli.Success("✓"), c.name)
		case c.warnOnly:
			ctx.Printf("%s %s: WARNING\n", cli.Warning("⚠"), c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("%s %s: FAIL\n", cli.Danger("❌"), c.name)
			ctx.Printf("   Error: %v\n", err)
			failed++
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if failed > 0 {
		if path := logger.Path(); path != "" {
			ctx.Printf("See %s for details.\n", path)
		}
		return fmt.Errorf("%d check(s) failed", failed)
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkDBReachable(bg context.Context, ctx *cli.Context) error {
	if err := ctx.Store.Load(bg); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.ListHabits(bg, ctx.Owner, true); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(bg context.Context, ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion(bg)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind latest %d, run '%s migrate'", current, latest, constants.AppName)
	}
	return nil
}

func checkHabitsIntegrity(bg context.Context, ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(bg, ctx.Owner, true)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(habits))
	for _, h := range habits {
		if seen[h.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", h.ID)
		}
		seen[h.ID] = true

		in := validation.HabitInput{
			Title:       h.Title,
			Description: h.Description,
			Frequency:   h.Frequency,
			TargetCount: h.TargetCount,
			Color:       h.Color,
		}
		if err := validation.ValidateHabit(&in); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
	}
	return nil
}

// checkEntryDates verifies the one-entry-per-day invariant the streak math relies on
func checkEntryDates(bg context.Context, ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(bg, ctx.Owner, true)
	if err != nil {
		return err
	}
	for _, h := range habits {
		dates, err := ctx.Store.ListEntryDates(bg, h.ID)
		if err != nil {
			return err
		}
		for i := 1; i < len(dates); i++ {
			if !dates[i-1].Before(dates[i]) {
				return fmt.Errorf("habit %s has out-of-order or duplicate entry dates around %s", h.ID, dates[i])
			}
		}
		if len(dates) != h.TotalEntries {
			return fmt.Errorf("habit %s has %d entries but %d distinct days", h.ID, h.TotalEntries, len(dates))
		}
	}
	return nil
}

func checkClockTimezone(bg context.Context, ctx *cli.Context) error {
	now := ctx.Clock.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkBackupsPresent(bg context.Context, ctx *cli.Context) error {
	if !ctx.FileBacked() {
		return fmt.Errorf("backups are not managed for the %s driver", ctx.Driver)
	}
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkKeyring(bg context.Context, ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	if ctx.Driver != constants.DriverPostgres {
		return nil
	}
	if _, err := keyring.GetConnectionString(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
