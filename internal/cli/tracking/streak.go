package tracking

import (
	"context"

	"github.com/julianstephens/habitlit/internal/cli"
)

type StreakCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id, id prefix or title (default: all active habits)."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	var ids, titles []string
	if c.Habit != "" {
		h, err := ctx.ResolveHabit(bg, c.Habit)
		if err != nil {
			return err
		}
		ids, titles = []string{h.ID}, []string{h.Title}
	} else {
		list, err := ctx.Habits.List(bg, ctx.Owner, false)
		if err != nil {
			return err
		}
		for _, h := range list {
			ids = append(ids, h.ID)
			titles = append(titles, h.Title)
		}
	}

	if len(ids) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Println(cli.Header("Streaks as of " + ctx.Engine.Today().String()))
	for i, id := range ids {
		s, err := ctx.Engine.GetStreak(bg, id, ctx.Owner)
		if err != nil {
			return err
		}
		current := streakText(s.CurrentStreak)
		if s.CurrentStreak > 0 {
			current = cli.Success(current)
		} else {
			current = cli.Muted(current)
		}
		ctx.Printf("%s current %s  longest %s  total %d\n",
			cli.Label(titles[i]), current, streakText(s.LongestStreak), s.TotalCompletions)
	}
	return nil
}
