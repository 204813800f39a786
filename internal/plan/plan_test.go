// ABOUTME: Tests for plan authoring and the nested JSON import.
// ABOUTME: Verifies persistence, counts, and input validation.
package plan

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "trainer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const planDoc = `{
	"phases": [{
		"name": "Base",
		"description": "Aerobic volume",
		"start_date": "2026-01-05",
		"end_date": "2026-01-18",
		"weekly_km_target_start": 40,
		"focus_areas": ["easy volume", "strength"],
		"weeks": [
			{
				"week_number": 1,
				"start_date": "2026-01-05",
				"end_date": "2026-01-11",
				"target_km": 40,
				"workouts": [
					{"date": "2026-01-06", "workout_type": "run", "target_km": 10},
					{"date": "2026-01-10", "workout_type": "long_run", "target_km": 20, "is_key_workout": true}
				]
			},
			{
				"week_number": 2,
				"start_date": "2026-01-12",
				"end_date": "2026-01-18",
				"target_km": 45,
				"notes": "Add strides"
			}
		]
	}]
}`

func TestImportCreatesFullPlan(t *testing.T) {
	db := openTestDB(t)

	res, err := Import(db, strings.NewReader(planDoc))
	require.NoError(t, err)
	assert.Equal(t, &Result{Phases: 1, Weeks: 2, Workouts: 2}, res)

	phases, err := db.ListPhases()
	require.NoError(t, err)
	require.Len(t, phases, 1)
	assert.Equal(t, "Base", phases[0].Name)
	assert.Equal(t, []string{"easy volume", "strength"}, phases[0].FocusAreas)
	require.NotNil(t, phases[0].WeeklyKmTargetStart)
	assert.Equal(t, 40.0, *phases[0].WeeklyKmTargetStart)

	weeks, err := db.ListWeeks()
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, phases[0].ID, weeks[0].PhaseID)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), weeks[0].StartDate)
	require.NotNil(t, weeks[1].Notes)
	assert.Equal(t, "Add strides", *weeks[1].Notes)

	workouts, err := db.ListPlannedWorkoutsByWeek(weeks[0].ID)
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	assert.Equal(t, models.WorkoutRun, workouts[0].WorkoutType)
	assert.True(t, workouts[1].IsKeyWorkout)
}

func TestImportEmptyDocument(t *testing.T) {
	db := openTestDB(t)
	_, err := Import(db, strings.NewReader(`{"phases": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no phases")
}

func TestImportRejectsBadDate(t *testing.T) {
	db := openTestDB(t)
	doc := `{"phases": [{"name": "Base", "start_date": "05.01.2026", "end_date": "2026-01-18"}]}`
	_, err := Import(db, strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phase start_date")
}

func TestImportRejectsMissingWorkoutType(t *testing.T) {
	db := openTestDB(t)
	doc := `{"phases": [{"name": "Base", "start_date": "2026-01-05", "end_date": "2026-01-18",
		"weeks": [{"week_number": 1, "start_date": "2026-01-05", "end_date": "2026-01-11",
		"workouts": [{"date": "2026-01-06"}]}]}]}`
	_, err := Import(db, strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workout_type")
}

func TestAddWeekAndWorkoutIncrementally(t *testing.T) {
	db := openTestDB(t)

	phase, res, err := AddPhase(db, &PhaseInput{
		Name:      "Build",
		StartDate: "2026-03-02",
		EndDate:   "2026-04-26",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, &Result{Phases: 1}, res)

	week, _, err := AddWeek(db, phase.ID, &WeekInput{
		WeekNumber: 9,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-08",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, phase.ID, week.PhaseID)

	pw, err := AddWorkout(db, week.ID, &WorkoutInput{
		Date:        "2026-03-04",
		WorkoutType: models.WorkoutStrength,
	}, nil)
	require.NoError(t, err)

	stored, err := db.ListPlannedWorkoutsByWeek(week.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, pw.ID, stored[0].ID)
}

func TestAddWeekRejectsNonPositiveNumber(t *testing.T) {
	db := openTestDB(t)
	phase, _, err := AddPhase(db, &PhaseInput{Name: "Base", StartDate: "2026-01-05", EndDate: "2026-01-18"}, nil)
	require.NoError(t, err)

	_, _, err = AddWeek(db, phase.ID, &WeekInput{WeekNumber: 0, StartDate: "2026-01-05", EndDate: "2026-01-11"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "week_number")
}
