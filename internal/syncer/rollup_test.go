// ABOUTME: Tests for the weekly rollup computation.
// ABOUTME: Covers rounding, week boundaries, missing targets, and empty weeks.
package syncer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

func createWeek(t *testing.T, db *storage.DB, weekNumber int, start, end string, targetKm *float64) *models.Week {
	t.Helper()
	phase := models.NewPhase("Base", parseDay(t, start), parseDay(t, end))
	require.NoError(t, db.CreatePhase(phase))

	w := models.NewWeek(phase.ID, weekNumber, parseDay(t, start), parseDay(t, end))
	w.TargetKm = targetKm
	require.NoError(t, db.CreateWeek(w))
	return w
}

func parseDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func storeActivity(t *testing.T, db *storage.DB, id int64, start time.Time, km float64, elevation float64, movingSeconds int) {
	t.Helper()
	a := models.NewActivity(id, start)
	a.DistanceKm = &km
	a.ElevationGain = &elevation
	a.MovingTimeSeconds = &movingSeconds
	require.NoError(t, db.UpsertActivity(a))
}

func TestRollupWeekTotals(t *testing.T) {
	db := openTestDB(t)
	target := 50.0
	w := createWeek(t, db, 1, "2026-01-05", "2026-01-11", &target)

	base := time.Date(2026, 1, 6, 7, 0, 0, 0, time.UTC)
	storeActivity(t, db, 1, base, 10.05, 120.4, 3600)
	storeActivity(t, db, 2, base.AddDate(0, 0, 1), 12.3, 80.3, 4500)
	storeActivity(t, db, 3, base.AddDate(0, 0, 2), 5.0, 0, 1800)

	r := NewRollup(db, zap.NewNop())
	summary, err := r.Week(w)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 27.3, summary.ActualKm)
	assert.Equal(t, 201.0, summary.ActualElevation)
	assert.Equal(t, 2.8, summary.ActualHours)
	assert.Equal(t, 3, summary.ActualActivities)
	require.NotNil(t, summary.CompletionPercentage)
	assert.Equal(t, 55, *summary.CompletionPercentage)

	stored, err := db.GetWeeklySummary(w.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.ActualKm, stored.ActualKm)
}

func TestRollupWeekIncludesFullEndDay(t *testing.T) {
	db := openTestDB(t)
	target := 20.0
	w := createWeek(t, db, 1, "2026-01-05", "2026-01-11", &target)

	// Late on the end day counts; the first second of the next day does not.
	storeActivity(t, db, 1, time.Date(2026, 1, 11, 23, 45, 0, 0, time.UTC), 8.0, 0, 2400)
	storeActivity(t, db, 2, time.Date(2026, 1, 12, 0, 0, 1, 0, time.UTC), 99.0, 0, 2400)

	summary, err := NewRollup(db, zap.NewNop()).Week(w)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 8.0, summary.ActualKm)
	assert.Equal(t, 1, summary.ActualActivities)
}

func TestRollupWeekWithoutActivities(t *testing.T) {
	db := openTestDB(t)
	target := 30.0
	w := createWeek(t, db, 1, "2026-01-05", "2026-01-11", &target)

	summary, err := NewRollup(db, zap.NewNop()).Week(w)
	require.NoError(t, err)
	assert.Nil(t, summary)

	_, err = db.GetWeeklySummary(w.ID)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "empty week must not write a summary")
}

func TestRollupWeekWithoutTarget(t *testing.T) {
	db := openTestDB(t)
	w := createWeek(t, db, 1, "2026-01-05", "2026-01-11", nil)

	storeActivity(t, db, 1, time.Date(2026, 1, 6, 7, 0, 0, 0, time.UTC), 10.0, 0, 3600)

	summary, err := NewRollup(db, zap.NewNop()).Week(w)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Nil(t, summary.CompletionPercentage)
}

func TestRollupWeekZeroTarget(t *testing.T) {
	db := openTestDB(t)
	target := 0.0
	w := createWeek(t, db, 1, "2026-01-05", "2026-01-11", &target)

	storeActivity(t, db, 1, time.Date(2026, 1, 6, 7, 0, 0, 0, time.UTC), 10.0, 0, 3600)

	summary, err := NewRollup(db, zap.NewNop()).Week(w)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Nil(t, summary.CompletionPercentage, "zero target must not divide")
}

func TestRollupAll(t *testing.T) {
	db := openTestDB(t)
	target := 30.0
	active := createWeek(t, db, 1, "2026-01-05", "2026-01-11", &target)
	createWeek(t, db, 2, "2026-01-12", "2026-01-18", &target)

	storeActivity(t, db, 1, time.Date(2026, 1, 6, 7, 0, 0, 0, time.UTC), 12.0, 50, 3600)

	res, err := NewRollup(db, zap.NewNop()).All()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated, "only weeks with activities get summaries")

	_, err = db.GetWeeklySummary(active.ID)
	assert.NoError(t, err)
}
