// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Tables for the training plan, synced activities, summaries, and credentials.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS phases (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		weekly_km_target_start REAL,
		weekly_km_target_end REAL,
		long_run_target_km REAL,
		focus_areas TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS weeks (
		id TEXT PRIMARY KEY,
		phase_id TEXT NOT NULL,
		week_number INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		target_km REAL,
		target_elevation REAL,
		target_hours REAL,
		target_strength_sessions INTEGER,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (phase_id) REFERENCES phases(id)
	);

	CREATE TABLE IF NOT EXISTS planned_workouts (
		id TEXT PRIMARY KEY,
		week_id TEXT NOT NULL,
		date TEXT NOT NULL,
		workout_type TEXT NOT NULL,
		title TEXT,
		description TEXT,
		target_km REAL,
		target_duration_minutes INTEGER,
		target_elevation REAL,
		intensity TEXT,
		race_countdown INTEGER,
		is_key_workout INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (week_id) REFERENCES weeks(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		strava_id INTEGER NOT NULL UNIQUE,
		strava_athlete_id INTEGER,
		date DATETIME NOT NULL,
		name TEXT,
		activity_type TEXT,
		sport_type TEXT,
		distance_km REAL,
		moving_time_seconds INTEGER,
		elapsed_time_seconds INTEGER,
		elevation_gain REAL,
		average_speed REAL,
		max_speed REAL,
		average_heartrate INTEGER,
		max_heartrate INTEGER,
		calories REAL,
		suffer_score REAL,
		description TEXT,
		matched_workout_id TEXT,
		raw_data TEXT,
		synced_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS weekly_summaries (
		id TEXT PRIMARY KEY,
		week_id TEXT NOT NULL UNIQUE,
		actual_km REAL NOT NULL,
		actual_elevation REAL NOT NULL,
		actual_hours REAL NOT NULL,
		actual_activities INTEGER NOT NULL,
		completion_percentage INTEGER,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (week_id) REFERENCES weeks(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS credentials (
		athlete_id INTEGER PRIMARY KEY,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		expires_at INTEGER NOT NULL,
		athlete_data TEXT,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lifestyle_logs (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		sleep_hours REAL,
		sleep_quality INTEGER,
		weight_kg REAL,
		energy_level INTEGER,
		soreness_level INTEGER,
		stress_level INTEGER,
		notes TEXT,
		no_sugar INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS ai_analyses (
		id TEXT PRIMARY KEY,
		week_id TEXT,
		analysis_type TEXT,
		ai_model TEXT,
		prompt TEXT,
		response TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		target_date TEXT,
		goal_type TEXT,
		target_value REAL,
		current_value REAL,
		is_completed INTEGER NOT NULL DEFAULT 0,
		completed_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_weeks_number ON weeks(week_number);
	CREATE INDEX IF NOT EXISTS idx_weeks_dates ON weeks(start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_planned_workouts_week ON planned_workouts(week_id);
	CREATE INDEX IF NOT EXISTS idx_planned_workouts_date ON planned_workouts(date);
	CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date DESC);
	CREATE INDEX IF NOT EXISTS idx_activities_athlete ON activities(strava_athlete_id);
	CREATE INDEX IF NOT EXISTS idx_lifestyle_logs_date ON lifestyle_logs(date);
	CREATE INDEX IF NOT EXISTS idx_ai_analyses_week ON ai_analyses(week_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
