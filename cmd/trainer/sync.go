// ABOUTME: CLI command that pulls activities from Strava.
// ABOUTME: Incremental by default; --full ignores the cursor.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/strava"
	"github.com/harperreed/trainer/internal/syncer"
)

var (
	syncFull    bool
	syncAthlete int64
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull activities from Strava",
	Long: `Pull activities from Strava into the local database.

By default the sync is incremental: it asks Strava only for activities
after the newest stored one, minus one day of slack. Use --full to
fetch the most recent page regardless of what is already stored.

A single page of up to 100 activities is fetched. If the page comes
back full, older history may still be missing; the command says so.

Connect an account first by opening /api/strava on a running server.
With several connected athletes, pick one with --athlete.

EXAMPLES:

  trainer sync                   # Incremental sync
  trainer sync --full            # Most recent 100 activities
  trainer sync --athlete 12345   # Explicit athlete`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		stravaClient := strava.NewClient(cfg.StravaClientID, cfg.StravaClientSecret)
		s := syncer.New(repo, stravaClient, logger)

		athleteID, err := s.ResolveAthleteID(syncAthlete)
		if err != nil {
			return err
		}

		res, err := s.Sync(cmd.Context(), athleteID, syncFull)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		color.Green("✓ Synced %d new activities (%d already stored, %d received)",
			res.Synced, res.Skipped, res.Total)
		if res.Truncated {
			color.Yellow("⚠ Page was full; older activities may be missing. Run with --full again.")
		}

		if res.Synced > 0 {
			rres, err := syncer.NewRollup(repo, logger).All()
			if err != nil {
				return fmt.Errorf("rollup failed: %w", err)
			}
			fmt.Printf("  Updated %d weekly summaries\n", rres.Updated)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncFull, "full", false, "ignore the incremental cursor")
	syncCmd.Flags().Int64Var(&syncAthlete, "athlete", 0, "athlete id when several accounts are connected")
	rootCmd.AddCommand(syncCmd)
}
