// ABOUTME: Root Cobra command for the trainer CLI.
// ABOUTME: Opens config, logging, and storage once for every subcommand.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/logging"
	"github.com/harperreed/trainer/internal/storage"
)

var (
	cfg    *config.Config
	repo   *storage.DB
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trainer",
	Short: "Personal training tracker for Gotland Rundt 2026",
	Long: `Trainer tracks a periodized running plan against real activities.

WHAT IT DOES:

  Plan        Phases, weeks, and planned workouts leading up to the race
  Activities  Pulled from Strava via OAuth, deduplicated by activity id
  Summaries   Weekly rollups of distance, elevation, and hours
  Coaching    AI feedback on any plan week via the Anthropic API

QUICK START:

  $ trainer import plan.json     # Load the training plan
  $ trainer serve                # Start the API server
  $ trainer sync                 # Pull new activities from Strava
  $ trainer sync --full          # Ignore the incremental cursor
  $ trainer rollup               # Recompute all weekly summaries
  $ trainer week                 # Show the current plan week

CONFIGURATION:

  Settings come from the environment. STRAVA_CLIENT_ID and
  STRAVA_CLIENT_SECRET are required for sync; ANTHROPIC_API_KEY enables
  the AI coach. DATA_DIR overrides the default database location.

DATA STORAGE:

  Everything lives in a single SQLite file, by default under
  ~/.local/share/trainer/trainer.db.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.LogDir, !cfg.Production())
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		repo, err = storage.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			if err := repo.Close(); err != nil {
				return err
			}
		}
		if logger != nil {
			_ = logger.Sync()
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
