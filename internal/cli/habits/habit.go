package habits

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/validation"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits with their totals." default:"1"`
	Show    HabitShowCmd    `cmd:"" help:"Show one habit."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit an existing habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Deactivate a habit (its history is kept)."`
	Restore HabitRestoreCmd `cmd:"" help:"Reactivate a deleted habit."`
}

type HabitAddCmd struct {
	Title       string `arg:"" help:"Habit title."`
	Description string `help:"Optional description." short:"d"`
	Frequency   string `help:"Cadence (daily or weekly)." enum:"daily,weekly" default:"daily"`
	Target      int    `help:"Target completions per period." default:"1"`
	Color       string `help:"Display color as #RRGGBB." default:"#3B82F6"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habits.Create(context.Background(), ctx.Owner, validation.HabitInput{
		Title:       c.Title,
		Description: c.Description,
		Frequency:   constants.Frequency(c.Frequency),
		TargetCount: c.Target,
		Color:       c.Color,
	})
	if err != nil {
		return err
	}

	ctx.Printf("%s Added habit %q (%s)\n", cli.Success("✓"), habit.Title, cli.ShortID(habit.ID))
	return nil
}

type HabitListCmd struct {
	All bool `help:"Include deleted habits." short:"a"`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Habits.List(context.Background(), ctx.Owner, c.All)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Println(cli.Header(fmt.Sprintf("Habits (%d)", len(habits))))
	for _, h := range habits {
		last := "never"
		if h.LastCompleted != nil {
			last = h.LastCompleted.String()
		}
		status := ""
		if !h.Active {
			status = " " + cli.Warning("[DELETED]")
		}
		ctx.Printf("%s %s %s %s %s%s\n",
			cli.Swatch(h.Color),
			cli.Muted(cli.ShortID(h.ID)),
			cli.Label(h.Title),
			fmt.Sprintf("%-6s", h.Frequency),
			cli.Muted(fmt.Sprintf("%d entries, last %s", h.TotalEntries, last)),
			status,
		)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(context.Background(), c.Habit)
	if err != nil {
		return err
	}

	ctx.Printf("%s %s\n", cli.Swatch(h.Color), cli.Header(h.Title))
	ctx.Printf("  ID:          %s\n", h.ID)
	if h.Description != "" {
		ctx.Printf("  Description: %s\n", h.Description)
	}
	ctx.Printf("  Frequency:   %s (target %d)\n", h.Frequency, h.TargetCount)
	ctx.Printf("  Color:       %s\n", h.Color)
	ctx.Printf("  Active:      %t\n", h.Active)
	ctx.Printf("  Entries:     %d\n", h.TotalEntries)
	if h.LastCompleted != nil {
		ctx.Printf("  Last done:   %s\n", h.LastCompleted)
	}
	ctx.Printf("  Created:     %s\n", h.CreatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

type HabitEditCmd struct {
	Habit            string `arg:"" help:"Habit id, id prefix or title."`
	Title            string `help:"New title."`
	Description      string `help:"New description." xor:"description"`
	ClearDescription bool   `help:"Remove the description." xor:"description"`
	Frequency        string `help:"New cadence (daily or weekly)."`
	Target           int    `help:"New target completions per period."`
	Color            string `help:"New display color as #RRGGBB."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	h, err := ctx.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}

	if c.Title == "" && c.Description == "" && !c.ClearDescription && c.Frequency == "" && c.Target == 0 && c.Color == "" {
		return fmt.Errorf("nothing to change: pass at least one of --title, --description, --clear-description, --frequency, --target or --color")
	}

	// Update replaces every field, so start from the current habit
	in := validation.HabitInput{
		Title:       h.Title,
		Description: h.Description,
		Frequency:   h.Frequency,
		TargetCount: h.TargetCount,
		Color:       h.Color,
	}
	if c.Title != "" {
		in.Title = c.Title
	}
	if c.Description != "" {
		in.Description = c.Description
	}
	if c.ClearDescription {
		in.Description = ""
	}
	if c.Frequency != "" {
		in.Frequency = constants.Frequency(c.Frequency)
	}
	if c.Target != 0 {
		in.TargetCount = c.Target
	}
	if c.Color != "" {
		in.Color = c.Color
	}

	ctx.PerformAutomaticBackup()

	updated, err := ctx.Habits.Update(bg, h.ID, ctx.Owner, in)
	if err != nil {
		return err
	}

	ctx.Printf("%s Updated habit %q\n", cli.Success("✓"), updated.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	h, err := ctx.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}
	if !h.Active {
		ctx.Printf("Habit %q is already deleted.\n", h.Title)
		return nil
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Habits.Deactivate(bg, h.ID, ctx.Owner); err != nil {
		return err
	}

	ctx.Printf("%s Deleted habit %q\n", cli.Success("✓"), h.Title)
	ctx.Printf("  Restore it with: %s habit restore %s\n", constants.AppName, cli.ShortID(h.ID))
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	h, err := ctx.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}
	if h.Active {
		ctx.Printf("Habit %q is already active.\n", h.Title)
		return nil
	}

	if err := ctx.Habits.Restore(bg, h.ID, ctx.Owner); err != nil {
		return err
	}

	ctx.Printf("%s Restored habit %q\n", cli.Success("✓"), h.Title)
	return nil
}
