package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/airi-scans/steward/internal/config"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a single reconciliation sweep and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.db.Close()

			intents, err := a.engine.RunSweep(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			a.dispatcher.Dispatch(cmd.Context(), intents)

			a.logger.Info("sweep complete", "intents", len(intents))
			return nil
		},
	}
}
