// ABOUTME: CLI command that shows the current plan week.
// ABOUTME: Target vs actual numbers plus the planned sessions, day by day.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the current plan week",
	Long: `Show the plan week containing today.

Prints the phase, the week's date range, planned versus actual volume,
and every planned session with its date and target. Run 'trainer sync'
first if the actual numbers look stale.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		week, err := repo.CurrentWeek(now)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println("No plan week covers today.")
			return nil
		}
		if err != nil {
			return err
		}

		phase, err := repo.GetPhase(week.PhaseID)
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		bold := color.New(color.Bold)

		bold.Printf("Week %d", week.WeekNumber)
		fmt.Printf(" — %s phase\n", phase.Name)
		faint.Printf("%s to %s\n\n", week.StartDate.Format("Mon Jan 2"), week.EndDate.Format("Mon Jan 2"))

		summary, err := repo.GetWeeklySummary(week.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		actualKm := 0.0
		activities := 0
		if summary != nil {
			actualKm = summary.ActualKm
			activities = summary.ActualActivities
		}
		if week.TargetKm != nil {
			fmt.Printf("Distance: %.1f / %.1f km", actualKm, *week.TargetKm)
			if summary != nil && summary.CompletionPercentage != nil {
				fmt.Printf(" (%d%%)", *summary.CompletionPercentage)
			}
			fmt.Println()
		} else {
			fmt.Printf("Distance: %.1f km (no target)\n", actualKm)
		}
		fmt.Printf("Activities: %d\n", activities)
		if week.Notes != nil && *week.Notes != "" {
			faint.Printf("Notes: %s\n", *week.Notes)
		}

		workouts, err := repo.ListPlannedWorkoutsByWeek(week.ID)
		if err != nil {
			return err
		}
		if len(workouts) == 0 {
			return nil
		}

		fmt.Println("\nPlanned sessions:")
		today := models.CivilDate(now)
		for _, w := range workouts {
			marker := " "
			if w.Date.Equal(today) {
				marker = color.GreenString("▸")
			}
			title := w.WorkoutType
			if w.Title != nil {
				title = *w.Title
			}
			target := ""
			if w.TargetKm != nil {
				target = fmt.Sprintf(" %.0f km", *w.TargetKm)
			}
			key := ""
			if w.IsKeyWorkout {
				key = color.YellowString(" ★")
			}
			fmt.Printf("%s %s %s%s%s\n",
				marker, faint.Sprint(w.Date.Format("Mon Jan 2")), title, target, key)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(weekCmd)
}
