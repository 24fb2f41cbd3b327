// Package backend turns the configured driver name into a storage.Provider.
package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/gormstore"
	"github.com/julianstephens/habitlit/internal/storage/memory"
	"github.com/julianstephens/habitlit/internal/storage/postgres"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

type Options struct {
	// Driver is one of sqlite, postgres, gorm or memory. Empty infers it from Config.
	Driver string
	// Config is a database file path, or a PostgreSQL URL for the postgres driver
	Config string
}

// ExpandPath resolves a leading ~ against the user's home directory
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// Driver reports the effective driver for opts
func Driver(opts Options) string {
	if opts.Driver != "" {
		return strings.ToLower(opts.Driver)
	}
	if postgres.IsConnString(opts.Config) {
		return constants.DriverPostgres
	}
	return constants.DriverSQLite
}

// Open builds, but does not Init or Load, the provider described by opts
func Open(opts Options) (storage.Provider, error) {
	driver := Driver(opts)
	logger.Debug("Selecting storage backend", "driver", driver)

	switch driver {
	case constants.DriverMemory:
		return memory.NewStore(), nil

	case constants.DriverPostgres:
		explicit := ""
		if postgres.IsConnString(opts.Config) {
			explicit = opts.Config
		}
		connStr, source := keyring.ResolveConnectionString(explicit)
		if connStr == "" {
			return nil, fmt.Errorf("no PostgreSQL connection string: pass --config, set %s, or run '%s keyring set'",
				constants.EnvDBConnection, constants.AppName)
		}
		if err := postgres.ValidateConnString(connStr); err != nil {
			// Passwords are only refused on the command line; env and keyring are private
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) || source == keyring.SourceFlag {
				return nil, err
			}
		}
		logger.Debug("Using PostgreSQL connection string", "source", source)
		return postgres.New(connStr), nil

	case constants.DriverSQLite, constants.DriverGorm:
		path, err := ExpandPath(opts.Config)
		if err != nil {
			return nil, err
		}
		if path == "" {
			return nil, fmt.Errorf("database path is required for the %s driver", driver)
		}
		if driver == constants.DriverGorm {
			return gormstore.NewStore(path), nil
		}
		return sqlite.NewStore(path), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q (expected sqlite, postgres, gorm or memory)", opts.Driver)
	}
}
