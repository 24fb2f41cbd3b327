package tracking

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

type AnalyticsCmd struct {
	Period string   `help:"Window to summarize (week, month or quarter)." enum:"week,month,quarter" default:"week"`
	Habits []string `arg:"" optional:"" help:"Habits to include (default: all active habits)."`
}

func (c *AnalyticsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	colors := map[string]string{}
	var ids []string
	if len(c.Habits) > 0 {
		for _, ref := range c.Habits {
			h, err := ctx.ResolveHabit(bg, ref)
			if err != nil {
				return err
			}
			ids = append(ids, h.ID)
			colors[h.ID] = h.Color
		}
	} else {
		list, err := ctx.Habits.List(bg, ctx.Owner, false)
		if err != nil {
			return err
		}
		for _, h := range list {
			ids = append(ids, h.ID)
			colors[h.ID] = h.Color
		}
	}

	a, err := ctx.Engine.GetAnalytics(bg, ctx.Owner, ids, constants.Period(c.Period))
	if err != nil {
		return err
	}
	render(ctx, a, colors)
	return nil
}

func render(ctx *cli.Context, a models.Analytics, colors map[string]string) {
	ctx.Println(cli.Header(fmt.Sprintf("Last %d days (%s to %s)", a.Days, a.Start, a.End)))
	if len(a.PerHabit) == 0 {
		ctx.Println("No habits to summarize.")
		return
	}

	ctx.Printf("%s %s\n", cli.Label("Overall"), cli.RateBar(a.OverallRate, constants.DefaultColor))
	ctx.Printf("%s %d\n\n", cli.Label("Entries"), a.TotalEntries)

	best := ""
	for _, r := range a.PerHabit {
		marker := " "
		if r.HabitID == a.BestHabitID {
			marker = cli.Success("★")
			best = r.Title
		}
		ctx.Printf("%s%s %s  %s\n", marker, cli.Label(r.Title), cli.RateBar(r.Rate, colorOr(colors[r.HabitID])),
			cli.Muted(fmt.Sprintf("%d/%d", r.Count, a.Days)))
	}

	if len(a.DailyIndicators) > 0 {
		ctx.Println()
		titles := make(map[string]string, len(a.PerHabit))
		for _, r := range a.PerHabit {
			titles[r.HabitID] = r.Title
		}
		for _, d := range a.DailyIndicators {
			ctx.Printf(" %s %s\n", cli.Label(titles[d.HabitID]), cli.Heatline(d.Series))
		}
	}

	if best != "" {
		ctx.Printf("\nBest habit: %s\n", best)
	}
}

func colorOr(hex string) string {
	if hex == "" {
		return constants.DefaultColor
	}
	return hex
}
