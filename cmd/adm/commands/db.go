// Package commands provides CLI commands for the admin tool
package commands

import (
	"context"
	"database/sql"
	"fmt"

	"lexiquiz/internal/config"
	"lexiquiz/internal/database"
	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"github.com/spf13/cobra"
)

// DatabaseCommands returns the database management commands
func DatabaseCommands(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
		Long: `Database management commands for lexiquiz.

Available commands:
  migrate   - Apply pending schema migrations
  status    - Show the applied migration version`,
	}

	dbCmd.AddCommand(migrateCmd(cfg, logger))
	dbCmd.AddCommand(statusCmd(cfg, logger))

	return dbCmd
}

func migrateCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			manager := database.NewManager(logger)

			db, err := manager.Open(ctx, cfg.Database)
			if err != nil {
				return contextutils.WrapErrorf(err, "failed to connect to %s", maskDatabaseURL(cfg.Database.URL))
			}
			defer func() { _ = db.Close() }()

			if err := manager.RunMigrations(ctx, db); err != nil {
				return err
			}
			return printStatus(ctx, cmd, manager, db)
		},
	}
}

func statusCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the applied migration version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			manager := database.NewManager(logger)

			db, err := manager.Open(ctx, cfg.Database)
			if err != nil {
				return contextutils.WrapErrorf(err, "failed to connect to %s", maskDatabaseURL(cfg.Database.URL))
			}
			defer func() { _ = db.Close() }()

			return printStatus(ctx, cmd, manager, db)
		},
	}
}

func printStatus(ctx context.Context, cmd *cobra.Command, manager *database.Manager, db *sql.DB) error {
	version, dirty, err := manager.MigrationStatus(ctx, db)
	if err != nil {
		return err
	}
	return newPrinter(cmd.OutOrStdout()).emit(
		fmt.Sprintf("schema version %d (dirty: %t)", version, dirty),
		map[string]interface{}{"version": version, "dirty": dirty},
	)
}
