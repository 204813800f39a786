// ABOUTME: Weekly rollup: sums stored activities into per-week summaries.
// ABOUTME: Distance and hours round to one decimal, elevation to whole meters.
package syncer

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

// RollupResult reports how many week summaries a full rollup wrote.
type RollupResult struct {
	Updated int `json:"updated"`
}

// Rollup recomputes weekly summaries from stored activities.
type Rollup struct {
	repo   storage.Repository
	logger *zap.Logger
}

// NewRollup creates a Rollup.
func NewRollup(repo storage.Repository, logger *zap.Logger) *Rollup {
	return &Rollup{repo: repo, logger: logger}
}

// Week recomputes the summary for one week and stores it. A week with no
// matching activities gets no summary; nil, nil is returned and any
// earlier summary is left untouched.
func (r *Rollup) Week(week *models.Week) (*models.WeeklySummary, error) {
	activities, err := r.repo.ListActivitiesInRange(week.StartDate, week.EndExclusive())
	if err != nil {
		return nil, fmt.Errorf("list activities for week %d: %w", week.WeekNumber, err)
	}
	if len(activities) == 0 {
		return nil, nil
	}

	var km, elevation, hours float64
	for _, a := range activities {
		if a.DistanceKm != nil {
			km += *a.DistanceKm
		}
		if a.ElevationGain != nil {
			elevation += *a.ElevationGain
		}
		if a.MovingTimeSeconds != nil {
			hours += float64(*a.MovingTimeSeconds) / 3600
		}
	}

	summary := models.NewWeeklySummary(week.ID)
	summary.ActualKm = models.Round1(km)
	summary.ActualElevation = math.Round(elevation)
	summary.ActualHours = models.Round1(hours)
	summary.ActualActivities = len(activities)
	summary.SetCompletion(week.TargetKm)

	if err := r.repo.UpsertWeeklySummary(summary); err != nil {
		return nil, fmt.Errorf("store summary for week %d: %w", week.WeekNumber, err)
	}
	return summary, nil
}

// All recomputes summaries for every week in the plan.
func (r *Rollup) All() (*RollupResult, error) {
	weeks, err := r.repo.ListWeeks()
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}

	res := &RollupResult{}
	for _, week := range weeks {
		summary, err := r.Week(week)
		if err != nil {
			return nil, err
		}
		if summary != nil {
			res.Updated++
		}
	}

	r.logger.Info("weekly rollup complete",
		zap.Int("weeks", len(weeks)),
		zap.Int("updated", res.Updated))

	return res, nil
}
