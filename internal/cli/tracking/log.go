package tracking

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/progress"
)

// LogCmd records a completion. Logging the same day twice overwrites it.
type LogCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Count int    `help:"Completed count for the day." default:"1"`
	Note  string `help:"Optional note for this entry." default:""`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	h, err := ctx.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}

	entry, err := ctx.Engine.LogEntry(bg, progress.LogEntryInput{
		HabitID: h.ID,
		OwnerID: ctx.Owner,
		Date:    c.Date,
		Count:   c.Count,
		Notes:   c.Note,
	})
	if err != nil {
		return err
	}

	streak, err := ctx.Engine.GetStreak(bg, h.ID, ctx.Owner)
	if err != nil {
		return err
	}

	ctx.Printf("%s Logged %q for %s (count %d)\n", cli.Success("✓"), h.Title, entry.Date, entry.CompletedCount)
	ctx.Printf("  Current streak: %s\n", streakText(streak.CurrentStreak))
	return nil
}

func streakText(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
