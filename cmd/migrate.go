package cmd

import (
	"fmt"

	"github.com/frahmantamala/survey-admin/internal/core/database"
	"github.com/frahmantamala/survey-admin/pkg/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	RunE:  runMigration,
	Use:   "migrate",
	Short: "create or update the database schema",
}

func runMigration(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer closeDatabase(db, lg)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	lg.Info("schema is up to date", "driver", cfg.Database.Driver)
	return nil
}
