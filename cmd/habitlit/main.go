package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/cli/backups"
	"github.com/julianstephens/habitlit/internal/cli/habits"
	"github.com/julianstephens/habitlit/internal/cli/system"
	"github.com/julianstephens/habitlit/internal/cli/tracking"
	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/progress"
	"github.com/julianstephens/habitlit/internal/storage/backend"
	"github.com/julianstephens/habitlit/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use HABITLIT_DB_CONNECTION, .pgpass, or the OS keyring instead." type:"string" default:"~/.config/habitlit/habitlit.db" env:"HABITLIT_CONFIG"`
	Driver   string `help:"Storage driver (sqlite, postgres, gorm or memory). Inferred from --config when empty." default:"" env:"HABITLIT_DRIVER"`
	Timezone string `help:"IANA timezone used to decide what 'today' is." default:"Local" env:"HABITLIT_TIMEZONE"`
	Debug    bool   `help:"Enable debug logging to stderr."`

	Init      system.InitCmd        `cmd:"" help:"Initialize habitlit storage."`
	Migrate   system.MigrateCmd     `cmd:"" help:"Run database migrations."`
	Doctor    system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Habit     habits.HabitCmd       `cmd:"" help:"Manage habits."`
	Log       tracking.LogCmd       `cmd:"" help:"Record a habit completion for a day."`
	Streak    tracking.StreakCmd    `cmd:"" help:"Show current and longest streaks."`
	History   tracking.HistoryCmd   `cmd:"" help:"Show a habit's logged days."`
	Analytics tracking.AnalyticsCmd `cmd:"" help:"Show completion rates over a period."`
	Backup    backups.BackupCmd     `cmd:"" help:"Manage database backups."`
	Keyring   system.KeyringCmd     `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Serve     system.ServeCmd       `cmd:"" help:"Run the HTTP API and scheduled jobs."`
	Tui       system.TuiCmd         `cmd:"" help:"Browse and log habits interactively."`
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Habit tracking with streaks and completion analytics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	}
}

func main() {
	ctx := kong.Parse(&CLI, options()...)
	if err := run(ctx, os.Stdout); err != nil {
		apperrors.Fatal(err)
	}
}

// run executes the parsed command with its output sent to out
func run(ctx *kong.Context, out io.Writer) error {
	command := ctx.Command()

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir(),
		Stderr:    command == "serve",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	if !utils.ValidateTimezone(CLI.Timezone) {
		return fmt.Errorf("invalid timezone %q: use an IANA name such as Europe/London, or Local", CLI.Timezone)
	}
	clock, err := progress.NewSystemClock(CLI.Timezone)
	if err != nil {
		return err
	}

	opts := backend.Options{Driver: CLI.Driver, Config: CLI.Config}
	driver := backend.Driver(opts)

	// Keyring commands manage the credentials the store would need, so they run without one
	if strings.HasPrefix(command, "keyring") {
		appCtx := cli.NewContext(nil, clock, driver)
		appCtx.Out = out
		return ctx.Run(appCtx)
	}

	store, err := backend.Open(opts)
	if err != nil {
		return err
	}
	defer store.Close()

	appCtx := cli.NewContext(store, clock, driver)
	appCtx.Out = out

	// init creates the store and doctor reports load failures itself
	if command != "init" && command != "doctor" {
		if err := store.Load(context.Background()); err != nil {
			return err
		}
	}
	return ctx.Run(appCtx)
}

// configDir is where logs live: next to the database file, or the user config dir for servers
func configDir() string {
	driver := backend.Driver(backend.Options{Driver: CLI.Driver, Config: CLI.Config})
	if driver == constants.DriverSQLite || driver == constants.DriverGorm {
		if path, err := backend.ExpandPath(CLI.Config); err == nil && path != "" {
			return filepath.Dir(path)
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constants.AppName)
	}
	return "."
}
