// ABOUTME: CLI command that imports a training plan from a JSON file.
// ABOUTME: Phases nest weeks, weeks nest workouts; everything is created in order.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/plan"
)

var importCmd = &cobra.Command{
	Use:   "import <plan.json>",
	Short: "Import a training plan from a JSON file",
	Long: `Import phases, weeks, and planned workouts from a JSON document.

The document nests weeks inside phases and workouts inside weeks:

  {
    "phases": [{
      "name": "Base",
      "start_date": "2026-01-05",
      "end_date": "2026-03-01",
      "weeks": [{
        "week_number": 1,
        "start_date": "2026-01-05",
        "end_date": "2026-01-11",
        "target_km": 40,
        "workouts": [
          {"date": "2026-01-06", "workout_type": "run", "target_km": 10}
        ]
      }]
    }]
  }

Import always creates new records. Run it against a fresh database, or
make sure the imported dates do not overlap the existing plan.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := plan.Import(repo, f)
		if err != nil {
			return err
		}
		color.Green("✓ Imported %d phases, %d weeks, %d planned workouts",
			res.Phases, res.Weeks, res.Workouts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
