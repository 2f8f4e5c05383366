package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/perfreview/goalflow/internal/config"
	"github.com/perfreview/goalflow/internal/db"
)

// openDatabase connects using the same environment as the server.
// The schema is migrated unless migrate is false.
func openDatabase(ctx context.Context, migrate bool) (*config.Config, *sqlx.DB, error) {
	cfg := config.Load()

	database, err := db.Open(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, nil, err
	}

	if migrate {
		err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return cfg, database, nil
}
