package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/desertthunder/ponyseeo/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if r.configPath == "" {
		return fmt.Errorf("%w: --config", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlain("Set credentials.google.client_id and client_secret, then run 'ponyseeo auth'\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err != nil {
			r.logger.Info("config file not found, creating from template", "path", r.configPath)
			if err := shared.CreateConfigFile(r.configPath); err != nil {
				r.logger.Warn("failed to create config file, using defaults", "error", err)
			}
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, applied, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s (%d migrations applied)\n", r.config.Database.Path, applied)
}

// openDatabase opens the configured database and brings its schema up to date.
func (r *Runner) openDatabase() (*sql.DB, int, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.logger.Debug("running database migrations")
	applied, err := shared.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, applied, nil
}
