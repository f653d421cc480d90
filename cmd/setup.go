package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/libman/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to --output. An existing file is never overwritten.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Set api.base_url to point libman at your catalog API.\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations, or rolls back the latest one with --rollback.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	if cmd.IsSet("db") {
		path = cmd.String("db")
	}

	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		r.writePlain("✓ Rolled back latest migration for %s\n", path)
		return nil
	}

	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Info("setup complete", "path", path, "applied", applied)
	r.writePlain("✓ Database ready at %s (%d migrations applied)\n", path, len(applied))
	return nil
}
