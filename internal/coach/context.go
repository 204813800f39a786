// ABOUTME: Builds the analysis context for AI coaching from stored week data.
// ABOUTME: Classifies the week as future/current/past relative to today.
package coach

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

// WeekStatus positions a week relative to today.
type WeekStatus string

const (
	WeekFuture  WeekStatus = "future"
	WeekCurrent WeekStatus = "current"
	WeekPast    WeekStatus = "past"
)

// AnalysisContext is everything the prompt builder needs about one week.
// Counts of due and completed workouts only consider days up to today,
// so a half-finished week is not judged against its full plan.
type AnalysisContext struct {
	Today time.Time

	Week       *models.Week
	Phase      *models.Phase
	Summary    *models.WeeklySummary // nil when no rollup exists yet
	Workouts   []*models.PlannedWorkout
	Activities []*models.Activity

	Status         WeekStatus
	DaysIntoWeek   int
	DaysLeftInWeek int

	WorkoutsDue       int
	CompletedWorkouts int

	DaysUntilRace int
}

// BuildContext assembles the analysis context for a week. The phase is
// required; a missing summary is fine, it just means no rollup ran.
func BuildContext(repo storage.Repository, week *models.Week, raceDate, now time.Time) (*AnalysisContext, error) {
	phase, err := repo.GetPhase(week.PhaseID)
	if err != nil {
		return nil, fmt.Errorf("get phase for week %d: %w", week.WeekNumber, err)
	}

	summary, err := repo.GetWeeklySummary(week.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("get summary for week %d: %w", week.WeekNumber, err)
	}

	workouts, err := repo.ListPlannedWorkoutsByWeek(week.ID)
	if err != nil {
		return nil, fmt.Errorf("list workouts for week %d: %w", week.WeekNumber, err)
	}

	activities, err := repo.ListActivitiesInRange(week.StartDate, week.EndExclusive())
	if err != nil {
		return nil, fmt.Errorf("list activities for week %d: %w", week.WeekNumber, err)
	}

	today := models.CivilDate(now)
	ac := &AnalysisContext{
		Today:         today,
		Week:          week,
		Phase:         phase,
		Summary:       summary,
		Workouts:      workouts,
		Activities:    activities,
		DaysUntilRace: daysBetween(today, models.CivilDate(raceDate)),
	}

	// Plan rows are usually calendar weeks, but race blocks can span
	// any range, so the length comes from the dates.
	weekDays := daysBetween(week.StartDate, week.EndDate) + 1
	switch {
	case today.Before(week.StartDate):
		ac.Status = WeekFuture
		ac.DaysLeftInWeek = daysBetween(today, week.StartDate)
	case today.After(week.EndDate):
		ac.Status = WeekPast
		ac.DaysIntoWeek = weekDays
	default:
		ac.Status = WeekCurrent
		ac.DaysIntoWeek = daysBetween(week.StartDate, today) + 1
		ac.DaysLeftInWeek = weekDays - ac.DaysIntoWeek
	}

	activityDays := make(map[time.Time]bool, len(activities))
	for _, a := range activities {
		activityDays[models.CivilDate(a.Date)] = true
	}
	for _, w := range workouts {
		if w.Date.After(today) {
			continue
		}
		ac.WorkoutsDue++
		if activityDays[w.Date] {
			ac.CompletedWorkouts++
		}
	}

	return ac, nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
