// ABOUTME: Activity operations for SQLite storage.
// ABOUTME: Upsert is idempotent on strava_id; range queries drive the weekly rollup.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

// UpsertActivity inserts an activity or, when the strava_id already
// exists, overwrites every mapped field and stamps a new synced_at. The
// internal id of an existing row is preserved.
func (d *DB) UpsertActivity(a *models.Activity) error {
	var matchedWorkoutID *string
	if a.MatchedWorkoutID != nil {
		s := a.MatchedWorkoutID.String()
		matchedWorkoutID = &s
	}
	var rawData *string
	if len(a.RawData) > 0 {
		s := string(a.RawData)
		rawData = &s
	}

	query := `
		INSERT INTO activities (id, strava_id, strava_athlete_id, date, name,
			activity_type, sport_type, distance_km, moving_time_seconds,
			elapsed_time_seconds, elevation_gain, average_speed, max_speed,
			average_heartrate, max_heartrate, calories, suffer_score,
			description, matched_workout_id, raw_data, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(strava_id) DO UPDATE SET
			strava_athlete_id = excluded.strava_athlete_id,
			date = excluded.date,
			name = excluded.name,
			activity_type = excluded.activity_type,
			sport_type = excluded.sport_type,
			distance_km = excluded.distance_km,
			moving_time_seconds = excluded.moving_time_seconds,
			elapsed_time_seconds = excluded.elapsed_time_seconds,
			elevation_gain = excluded.elevation_gain,
			average_speed = excluded.average_speed,
			max_speed = excluded.max_speed,
			average_heartrate = excluded.average_heartrate,
			max_heartrate = excluded.max_heartrate,
			calories = excluded.calories,
			suffer_score = excluded.suffer_score,
			description = excluded.description,
			raw_data = excluded.raw_data,
			synced_at = excluded.synced_at
	`
	_, err := d.db.Exec(query,
		a.ID.String(),
		a.StravaID,
		a.StravaAthleteID,
		formatTime(a.Date),
		a.Name,
		a.ActivityType,
		a.SportType,
		a.DistanceKm,
		a.MovingTimeSeconds,
		a.ElapsedTimeSeconds,
		a.ElevationGain,
		a.AverageSpeed,
		a.MaxSpeed,
		a.AverageHeartrate,
		a.MaxHeartrate,
		a.Calories,
		a.SufferScore,
		a.Description,
		matchedWorkoutID,
		rawData,
		formatTime(a.SyncedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert activity: %w", err)
	}
	return nil
}

// ActivityExists reports whether an activity with the Strava id is stored.
func (d *DB) ActivityExists(stravaID int64) (bool, error) {
	var one int
	err := d.db.QueryRow(`SELECT 1 FROM activities WHERE strava_id = ?`, stravaID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("activity exists: %w", err)
	}
	return true, nil
}

// LatestActivityDate returns the start time of the most recent stored
// activity, or nil when none exist. It anchors the incremental sync cursor.
func (d *DB) LatestActivityDate() (*time.Time, error) {
	var dateStr string
	err := d.db.QueryRow(`SELECT date FROM activities ORDER BY date DESC LIMIT 1`).Scan(&dateStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest activity date: %w", err)
	}
	t, err := parseTime(dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse latest activity date: %w", err)
	}
	return &t, nil
}

const activityColumns = `id, strava_id, strava_athlete_id, date, name,
	activity_type, sport_type, distance_km, moving_time_seconds,
	elapsed_time_seconds, elevation_gain, average_speed, max_speed,
	average_heartrate, max_heartrate, calories, suffer_score,
	description, matched_workout_id, raw_data, synced_at`

// ListActivities retrieves activities, most recent first.
func (d *DB) ListActivities(limit int) ([]*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities ORDER BY date DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

// ListActivitiesInRange retrieves activities with start <= date < endExclusive,
// date ascending. Callers pass week.EndExclusive() so the entire end day
// is included.
func (d *DB) ListActivitiesInRange(start, endExclusive time.Time) ([]*models.Activity, error) {
	rows, err := d.db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE date >= ? AND date < ?
		ORDER BY date ASC
	`, formatTime(start), formatTime(endExclusive))
	if err != nil {
		return nil, fmt.Errorf("list activities in range: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

func scanActivities(rows *sql.Rows) ([]*models.Activity, error) {
	var activities []*models.Activity
	for rows.Next() {
		var a models.Activity
		var idStr, dateStr, syncedStr string
		var matchedWorkoutID, rawData *string

		err := rows.Scan(&idStr, &a.StravaID, &a.StravaAthleteID, &dateStr, &a.Name,
			&a.ActivityType, &a.SportType, &a.DistanceKm, &a.MovingTimeSeconds,
			&a.ElapsedTimeSeconds, &a.ElevationGain, &a.AverageSpeed, &a.MaxSpeed,
			&a.AverageHeartrate, &a.MaxHeartrate, &a.Calories, &a.SufferScore,
			&a.Description, &matchedWorkoutID, &rawData, &syncedStr)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}

		if a.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse activity id: %w", err)
		}
		if a.Date, err = parseTime(dateStr); err != nil {
			return nil, fmt.Errorf("parse activity date: %w", err)
		}
		if a.SyncedAt, err = parseTime(syncedStr); err != nil {
			return nil, fmt.Errorf("parse activity synced at: %w", err)
		}
		if matchedWorkoutID != nil {
			id, err := uuid.Parse(*matchedWorkoutID)
			if err != nil {
				return nil, fmt.Errorf("parse matched workout id: %w", err)
			}
			a.MatchedWorkoutID = &id
		}
		if rawData != nil {
			a.RawData = []byte(*rawData)
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}
