// ABOUTME: Phase, Week, and PlannedWorkout operations for SQLite storage.
// ABOUTME: Includes the current-phase/current-week range lookups with overlap tie-break.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

// CreatePhase stores a new training phase.
func (d *DB) CreatePhase(p *models.Phase) error {
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("create phase: end date %s before start date %s",
			formatDate(p.EndDate), formatDate(p.StartDate))
	}

	var focusAreas *string
	if len(p.FocusAreas) > 0 {
		data, err := json.Marshal(p.FocusAreas)
		if err != nil {
			return fmt.Errorf("marshal focus areas: %w", err)
		}
		s := string(data)
		focusAreas = &s
	}

	query := `
		INSERT INTO phases (id, name, description, start_date, end_date,
			weekly_km_target_start, weekly_km_target_end, long_run_target_km,
			focus_areas, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		p.ID.String(),
		p.Name,
		p.Description,
		formatDate(p.StartDate),
		formatDate(p.EndDate),
		p.WeeklyKmTargetStart,
		p.WeeklyKmTargetEnd,
		p.LongRunTargetKm,
		focusAreas,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create phase: %w", err)
	}
	return nil
}

const phaseColumns = `id, name, description, start_date, end_date,
	weekly_km_target_start, weekly_km_target_end, long_run_target_km,
	focus_areas, created_at`

// GetPhase retrieves a phase by ID.
func (d *DB) GetPhase(id uuid.UUID) (*models.Phase, error) {
	row := d.db.QueryRow(`SELECT `+phaseColumns+` FROM phases WHERE id = ?`, id.String())
	return scanPhase(row)
}

// ListPhases retrieves all phases ordered by start date.
func (d *DB) ListPhases() ([]*models.Phase, error) {
	rows, err := d.db.Query(`SELECT ` + phaseColumns + ` FROM phases ORDER BY start_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list phases: %w", err)
	}
	defer rows.Close()

	var phases []*models.Phase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

// CurrentPhase returns the phase whose range contains today. Overlapping
// ranges resolve to the earliest start date.
func (d *DB) CurrentPhase(today time.Time) (*models.Phase, error) {
	day := formatDate(today)
	row := d.db.QueryRow(`
		SELECT `+phaseColumns+`
		FROM phases
		WHERE start_date <= ? AND end_date >= ?
		ORDER BY start_date ASC
		LIMIT 1
	`, day, day)
	return scanPhase(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPhase(row rowScanner) (*models.Phase, error) {
	var p models.Phase
	var idStr, startStr, endStr, createdStr string
	var focusAreas *string

	err := row.Scan(&idStr, &p.Name, &p.Description, &startStr, &endStr,
		&p.WeeklyKmTargetStart, &p.WeeklyKmTargetEnd, &p.LongRunTargetKm,
		&focusAreas, &createdStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan phase: %w", err)
	}

	if p.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse phase id: %w", err)
	}
	if p.StartDate, err = parseDate(startStr); err != nil {
		return nil, fmt.Errorf("parse phase start date: %w", err)
	}
	if p.EndDate, err = parseDate(endStr); err != nil {
		return nil, fmt.Errorf("parse phase end date: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("parse phase created at: %w", err)
	}
	if focusAreas != nil {
		if err := json.Unmarshal([]byte(*focusAreas), &p.FocusAreas); err != nil {
			return nil, fmt.Errorf("unmarshal focus areas: %w", err)
		}
	}
	return &p, nil
}

// CreateWeek stores a new plan week. The start/end invariant is enforced
// here; contiguity across weeks is the planner's responsibility.
func (d *DB) CreateWeek(w *models.Week) error {
	if w.EndDate.Before(w.StartDate) {
		return fmt.Errorf("create week %d: end date %s before start date %s",
			w.WeekNumber, formatDate(w.EndDate), formatDate(w.StartDate))
	}

	query := `
		INSERT INTO weeks (id, phase_id, week_number, start_date, end_date,
			target_km, target_elevation, target_hours, target_strength_sessions,
			notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		w.ID.String(),
		w.PhaseID.String(),
		w.WeekNumber,
		formatDate(w.StartDate),
		formatDate(w.EndDate),
		w.TargetKm,
		w.TargetElevation,
		w.TargetHours,
		w.TargetStrengthSessions,
		w.Notes,
		formatTime(w.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create week: %w", err)
	}
	return nil
}

const weekColumns = `id, phase_id, week_number, start_date, end_date,
	target_km, target_elevation, target_hours, target_strength_sessions,
	notes, created_at`

// GetWeek retrieves a week by ID.
func (d *DB) GetWeek(id uuid.UUID) (*models.Week, error) {
	row := d.db.QueryRow(`SELECT `+weekColumns+` FROM weeks WHERE id = ?`, id.String())
	return scanWeek(row)
}

// ListWeeks retrieves all weeks ordered by week number.
func (d *DB) ListWeeks() ([]*models.Week, error) {
	rows, err := d.db.Query(`SELECT ` + weekColumns + ` FROM weeks ORDER BY week_number ASC`)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	defer rows.Close()

	var weeks []*models.Week
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

// CurrentWeek returns the week whose range contains today. Overlapping
// ranges resolve to the earliest start date.
func (d *DB) CurrentWeek(today time.Time) (*models.Week, error) {
	day := formatDate(today)
	row := d.db.QueryRow(`
		SELECT `+weekColumns+`
		FROM weeks
		WHERE start_date <= ? AND end_date >= ?
		ORDER BY start_date ASC
		LIMIT 1
	`, day, day)
	return scanWeek(row)
}

func scanWeek(row rowScanner) (*models.Week, error) {
	var w models.Week
	var idStr, phaseIDStr, startStr, endStr, createdStr string

	err := row.Scan(&idStr, &phaseIDStr, &w.WeekNumber, &startStr, &endStr,
		&w.TargetKm, &w.TargetElevation, &w.TargetHours, &w.TargetStrengthSessions,
		&w.Notes, &createdStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan week: %w", err)
	}

	if w.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse week id: %w", err)
	}
	if w.PhaseID, err = uuid.Parse(phaseIDStr); err != nil {
		return nil, fmt.Errorf("parse week phase id: %w", err)
	}
	if w.StartDate, err = parseDate(startStr); err != nil {
		return nil, fmt.Errorf("parse week start date: %w", err)
	}
	if w.EndDate, err = parseDate(endStr); err != nil {
		return nil, fmt.Errorf("parse week end date: %w", err)
	}
	if w.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("parse week created at: %w", err)
	}
	return &w, nil
}

// CreatePlannedWorkout stores a new planned workout.
func (d *DB) CreatePlannedWorkout(pw *models.PlannedWorkout) error {
	query := `
		INSERT INTO planned_workouts (id, week_id, date, workout_type, title,
			description, target_km, target_duration_minutes, target_elevation,
			intensity, race_countdown, is_key_workout, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		pw.ID.String(),
		pw.WeekID.String(),
		formatDate(pw.Date),
		pw.WorkoutType,
		pw.Title,
		pw.Description,
		pw.TargetKm,
		pw.TargetDurationMinutes,
		pw.TargetElevation,
		pw.Intensity,
		pw.RaceCountdown,
		pw.IsKeyWorkout,
		formatTime(pw.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create planned workout: %w", err)
	}
	return nil
}

const plannedWorkoutColumns = `id, week_id, date, workout_type, title,
	description, target_km, target_duration_minutes, target_elevation,
	intensity, race_countdown, is_key_workout, created_at`

// ListPlannedWorkoutsByWeek retrieves a week's workouts, date ascending.
func (d *DB) ListPlannedWorkoutsByWeek(weekID uuid.UUID) ([]*models.PlannedWorkout, error) {
	rows, err := d.db.Query(`
		SELECT `+plannedWorkoutColumns+`
		FROM planned_workouts
		WHERE week_id = ?
		ORDER BY date ASC
	`, weekID.String())
	if err != nil {
		return nil, fmt.Errorf("list planned workouts: %w", err)
	}
	defer rows.Close()
	return scanPlannedWorkouts(rows)
}

// ListPlannedWorkoutsByDate retrieves the workouts planned for one day.
func (d *DB) ListPlannedWorkoutsByDate(date time.Time) ([]*models.PlannedWorkout, error) {
	rows, err := d.db.Query(`
		SELECT `+plannedWorkoutColumns+`
		FROM planned_workouts
		WHERE date = ?
		ORDER BY created_at ASC
	`, formatDate(date))
	if err != nil {
		return nil, fmt.Errorf("list planned workouts by date: %w", err)
	}
	defer rows.Close()
	return scanPlannedWorkouts(rows)
}

func scanPlannedWorkouts(rows *sql.Rows) ([]*models.PlannedWorkout, error) {
	var workouts []*models.PlannedWorkout
	for rows.Next() {
		var pw models.PlannedWorkout
		var idStr, weekIDStr, dateStr, createdStr string

		err := rows.Scan(&idStr, &weekIDStr, &dateStr, &pw.WorkoutType, &pw.Title,
			&pw.Description, &pw.TargetKm, &pw.TargetDurationMinutes, &pw.TargetElevation,
			&pw.Intensity, &pw.RaceCountdown, &pw.IsKeyWorkout, &createdStr)
		if err != nil {
			return nil, fmt.Errorf("scan planned workout: %w", err)
		}

		if pw.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse planned workout id: %w", err)
		}
		if pw.WeekID, err = uuid.Parse(weekIDStr); err != nil {
			return nil, fmt.Errorf("parse planned workout week id: %w", err)
		}
		if pw.Date, err = parseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse planned workout date: %w", err)
		}
		if pw.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("parse planned workout created at: %w", err)
		}
		workouts = append(workouts, &pw)
	}
	return workouts, rows.Err()
}
