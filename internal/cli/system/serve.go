package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitlit/internal/api"
	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/scheduler"
)

// ServeCmd runs the HTTP API together with the nightly backup and daily digest jobs
type ServeCmd struct {
	Addr        string `help:"Address to listen on." default:"127.0.0.1:8080" env:"HABITLIT_ADDR"`
	BackupAt    string `help:"Daily backup time (HH:MM, empty disables)." default:"03:00"`
	DigestAt    string `help:"Daily digest time (HH:MM, empty disables)." default:"21:00"`
	DigestOwner string `help:"Owner whose digest is logged." default:"local"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := c.schedule(ctx)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv := api.NewServer(ctx.Engine, ctx.Habits)
	ctx.Printf("%s serving on http://%s (owner header: %s)\n", constants.AppName, c.Addr, constants.UserIDHeader)
	if err := srv.ListenAndServe(runCtx, c.Addr); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func (c *ServeCmd) schedule(ctx *cli.Context) (*scheduler.Scheduler, error) {
	sched := scheduler.New(ctx.Clock.Now().Location())

	if c.BackupAt != "" && ctx.FileBacked() {
		mgr, err := ctx.BackupManager()
		if err != nil {
			return nil, err
		}
		if _, err := sched.ScheduleDaily("backup", c.BackupAt, scheduler.BackupJob(mgr)); err != nil {
			return nil, err
		}
	}

	if c.DigestAt != "" {
		if _, err := sched.ScheduleDaily("digest", c.DigestAt,
			scheduler.DigestJob(ctx.Engine, ctx.Store, c.DigestOwner)); err != nil {
			return nil, err
		}
	}
	return sched, nil
}
