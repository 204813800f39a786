// ABOUTME: Activity, WeeklySummary, and Credential models for Strava sync.
// ABOUTME: Activities are keyed by Strava id; summaries are derived, one per week.
package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// Activity is an actual recorded session ingested from Strava. It is a
// free-standing log entry: it never references a week directly, matching
// is done by date-range overlap at query time.
type Activity struct {
	ID                 uuid.UUID       `json:"id"`
	StravaID           int64           `json:"strava_id"`
	StravaAthleteID    *int64          `json:"strava_athlete_id,omitempty"`
	Date               time.Time       `json:"date"` // activity start, UTC
	Name               *string         `json:"name,omitempty"`
	ActivityType       *string         `json:"activity_type,omitempty"` // Run, Walk, Hike, WeightTraining
	SportType          *string         `json:"sport_type,omitempty"`
	DistanceKm         *float64        `json:"distance_km,omitempty"`
	MovingTimeSeconds  *int            `json:"moving_time_seconds,omitempty"`
	ElapsedTimeSeconds *int            `json:"elapsed_time_seconds,omitempty"`
	ElevationGain      *float64        `json:"elevation_gain,omitempty"`
	AverageSpeed       *float64        `json:"average_speed,omitempty"`
	MaxSpeed           *float64        `json:"max_speed,omitempty"`
	AverageHeartrate   *int            `json:"average_heartrate,omitempty"`
	MaxHeartrate       *int            `json:"max_heartrate,omitempty"`
	Calories           *float64        `json:"calories,omitempty"`
	SufferScore        *float64        `json:"suffer_score,omitempty"`
	Description        *string         `json:"description,omitempty"`
	MatchedWorkoutID   *uuid.UUID      `json:"matched_workout_id,omitempty"`
	RawData            json.RawMessage `json:"-"`
	SyncedAt           time.Time       `json:"synced_at"`
}

// NewActivity creates an Activity with a generated UUID.
func NewActivity(stravaID int64, date time.Time) *Activity {
	return &Activity{
		ID:       uuid.New(),
		StravaID: stravaID,
		Date:     date.UTC(),
		SyncedAt: time.Now().UTC(),
	}
}

// WeeklySummary is the derived rollup of activities that fall inside a
// week. At most one exists per week and it is replaced wholesale on each
// rollup, never patched field by field.
type WeeklySummary struct {
	ID                   uuid.UUID `json:"id"`
	WeekID               uuid.UUID `json:"week_id"`
	ActualKm             float64   `json:"actual_km"`
	ActualElevation      float64   `json:"actual_elevation"`
	ActualHours          float64   `json:"actual_hours"`
	ActualActivities     int       `json:"actual_activities"`
	CompletionPercentage *int      `json:"completion_percentage,omitempty"` // nil when the week has no positive km target
	UpdatedAt            time.Time `json:"updated_at"`
}

// NewWeeklySummary creates a WeeklySummary for the given week.
func NewWeeklySummary(weekID uuid.UUID) *WeeklySummary {
	return &WeeklySummary{
		ID:        uuid.New(),
		WeekID:    weekID,
		UpdatedAt: time.Now().UTC(),
	}
}

// SetCompletion computes the completion percentage against a km target.
// A nil or non-positive target leaves the percentage absent rather than
// producing Inf/NaN.
func (s *WeeklySummary) SetCompletion(targetKm *float64) {
	if targetKm == nil || *targetKm <= 0 {
		s.CompletionPercentage = nil
		return
	}
	pct := int(math.Round(s.ActualKm / *targetKm * 100))
	s.CompletionPercentage = &pct
}

// Credential holds the OAuth token triple for one Strava athlete.
// Exactly one row exists per athlete id; refresh overwrites it in place.
type Credential struct {
	AthleteID    int64           `json:"athlete_id"`
	AccessToken  string          `json:"-"`
	RefreshToken string          `json:"-"`
	ExpiresAt    int64           `json:"expires_at"` // epoch seconds
	AthleteData  json.RawMessage `json:"athlete_data,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Expired reports whether the access token is past its expiry at the
// given instant.
func (c *Credential) Expired(now time.Time) bool {
	return c.ExpiresAt < now.Unix()
}

// Round1 rounds to one decimal place, shared by rollup fields.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
