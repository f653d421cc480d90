package main

import (
	"context"
	"fmt"
	"net"

	"github.com/desertthunder/libman/internal/server"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the catalog REST API over a SQLite database until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	dbPath := r.config.Database.Path
	if cmd.IsSet("db") {
		dbPath = cmd.String("db")
	}
	addr := r.config.Server.Addr()
	if cmd.IsSet("addr") {
		addr = cmd.String("addr")
	}

	db, err := shared.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		r.logger.Info("applied migrations", "versions", applied)
	}

	api := server.NewAPI(db, server.Options{
		Logger:    r.logger,
		RateLimit: r.config.Server.RateLimit,
		Burst:     r.config.Server.Burst,
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	root := fmt.Sprintf("http://%s%s/", ln.Addr().String(), server.BasePath)
	r.writePlain("✓ Catalog API listening at %s\n", root)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(root); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return server.Serve(ctx, server.New(addr, api), ln, r.logger)
}
