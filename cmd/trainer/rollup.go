// ABOUTME: CLI command that recomputes all weekly summaries.
// ABOUTME: Useful after manual database edits or plan changes.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/syncer"
)

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Recompute weekly summaries from stored activities",
	Long: `Recompute the summary for every plan week.

Each summary sums the activities whose start falls inside the week,
end day included: total distance, elevation, hours, and the completion
percentage against the week's distance target. Weeks without activities
are skipped and keep whatever summary they had.

Sync runs this automatically when it stores new activities; run it by
hand after editing the plan or the database directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := syncer.NewRollup(repo, logger).All()
		if err != nil {
			return fmt.Errorf("rollup failed: %w", err)
		}
		color.Green("✓ Updated %d weekly summaries", res.Updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rollupCmd)
}
