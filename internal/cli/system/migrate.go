package system

import (
	"fmt"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	versioned, ok := ctx.Store.(storage.Versioned)
	if !ok {
		return fmt.Errorf("migrate command only supports SQL storage")
	}

	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	before, _, err := versioned.SchemaVersion()
	if err != nil {
		return err
	}

	// Init reopens the connection before applying pending migrations.
	if err := ctx.Store.Close(); err != nil {
		return err
	}
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	after, _, err := versioned.SchemaVersion()
	if err != nil {
		return err
	}

	if after == before {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully migrated schema from version %d to %d.\n", before, after)
	}
	return nil
}
