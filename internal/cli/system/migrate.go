package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitlit/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	before, latest, err := ctx.Store.SchemaVersion(bg)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	// Init applies any pending migrations and is safe to repeat
	if err := ctx.Store.Init(bg); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	after, _, err := ctx.Store.SchemaVersion(bg)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if latest == 0 {
		ctx.Printf("The %s driver manages its schema without versioned migrations.\n", ctx.Driver)
		return nil
	}
	if after == before {
		ctx.Println("No migrations to apply. Database is up to date.")
		return nil
	}
	ctx.Printf("%s Successfully applied %d migration(s) (version %d -> %d).\n",
		cli.Success("✓"), after-before, before, after)
	return nil
}
