package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/hymnx/internal/shared"
	"github.com/desertthunder/hymnx/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupDatabase opens (or creates) the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := stringOr(cmd, "db", r.config.Database.Path)
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlainln("%s", ui.OK("✓ Database ready: "+path))
}

// SetupConfig writes the embedded default configuration.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := stringOr(cmd, "output", filepath.Join(r.baseDir, defaultConfigName))

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlainln("%s", ui.OK("✓ Config written: "+path))
}
