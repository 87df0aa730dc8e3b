package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		count, err := migrateData(ctx.Store, c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("Migration completed successfully! (%d values copied)\n", count)
	}

	return nil
}

// reset removes the database file. Only file-backed stores can be reset.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, isJSON := ctx.Store.(*storage.JSONStore); !ctx.IsSQLite() && !isJSON {
		return errors.New("--force is only supported for file-based storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDbPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDbPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		// Close first so the file is not held open while deleting.
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// migrateData copies every stored value from source into dest. Values are
// opaque documents, so the copy is the same for every backend.
func migrateData(dest storage.Provider, source string) (int, error) {
	sourceStore, err := cli.OpenStore(source)
	if err != nil {
		return 0, err
	}
	if err := sourceStore.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	keys, err := sourceStore.Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to list source values: %w", err)
	}
	for _, key := range keys {
		value, err := sourceStore.Get(key)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if err := dest.Set(key, value); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", key, err)
		}
		fmt.Printf("  Migrated %s\n", key)
	}
	return len(keys), nil
}
