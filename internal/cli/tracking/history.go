package tracking

import (
	"context"
	"strconv"

	"github.com/julianstephens/habitlit/internal/cli"
)

type HistoryCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
	From  string `help:"First day to include (YYYY-MM-DD)." default:""`
	To    string `help:"Last day to include (YYYY-MM-DD)." default:""`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	h, err := ctx.ResolveHabit(bg, c.Habit)
	if err != nil {
		return err
	}

	entries, err := ctx.Habits.History(bg, h.ID, ctx.Owner, c.From, c.To)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		ctx.Printf("No entries for %q.\n", h.Title)
		return nil
	}

	ctx.Printf("%s %s\n", cli.Swatch(h.Color), cli.Header(h.Title))
	for _, e := range entries {
		line := "  " + e.Date.String() + "  " + cli.Success("✓")
		if e.CompletedCount > 1 {
			line += cli.Muted(" x" + strconv.Itoa(e.CompletedCount))
		}
		if e.Notes != "" {
			line += "  " + cli.Muted(e.Notes)
		}
		ctx.Println(line)
	}
	ctx.Printf("\n%d entries\n", len(entries))
	return nil
}
