package main

import (
	"github.com/spf13/cobra"

	"github.com/airi-scans/steward/internal/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			newLogger(cfg).Info("migrations applied", "path", cfg.DB.Path)
			return nil
		},
	}
}
