package cmd

import (
	"database/sql"
	"fmt"

	"github.com/perfreview/goalflow/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateStatusCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, database, err := openDatabase(ctx, false)
			if err != nil {
				return err
			}
			defer db.Close(database)

			err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			return printVersion(cmd, cfg.DBDriver, database.DB)
		},
	}
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, database, err := openDatabase(ctx, false)
			if err != nil {
				return err
			}
			defer db.Close(database)

			err = db.MigrateDown(ctx, database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			return printVersion(cmd, cfg.DBDriver, database.DB)
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := openDatabase(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer db.Close(database)

			return printVersion(cmd, cfg.DBDriver, database.DB)
		},
	}
}

func printVersion(cmd *cobra.Command, driver string, database *sql.DB) error {
	version, err := db.Version(cmd.Context(), database, driver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}
