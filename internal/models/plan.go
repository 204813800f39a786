// ABOUTME: Phase, Week, and PlannedWorkout models for the training plan.
// ABOUTME: Phases own weeks, weeks own planned workouts; dates are UTC civil dates.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout type tags used by the plan. The column is free-form; these are
// the values the planner actually writes.
const (
	WorkoutRun        = "run"
	WorkoutWalk       = "walk"
	WorkoutStrength   = "strength"
	WorkoutRest       = "rest"
	WorkoutLongRun    = "long_run"
	WorkoutBackToBack = "back_to_back"
)

// Phase represents a named training block (Base, Build, Peak, Taper)
// with a date range and weekly volume targets.
type Phase struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Description         *string   `json:"description,omitempty"`
	StartDate           time.Time `json:"start_date"` // civil date, UTC midnight
	EndDate             time.Time `json:"end_date"`
	WeeklyKmTargetStart *float64  `json:"weekly_km_target_start,omitempty"`
	WeeklyKmTargetEnd   *float64  `json:"weekly_km_target_end,omitempty"`
	LongRunTargetKm     *float64  `json:"long_run_target_km,omitempty"`
	FocusAreas          []string  `json:"focus_areas,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewPhase creates a Phase with a generated UUID.
func NewPhase(name string, startDate, endDate time.Time) *Phase {
	return &Phase{
		ID:        uuid.New(),
		Name:      name,
		StartDate: CivilDate(startDate),
		EndDate:   CivilDate(endDate),
		CreatedAt: time.Now().UTC(),
	}
}

// Contains reports whether the given day falls within the phase range,
// end date inclusive.
func (p *Phase) Contains(day time.Time) bool {
	d := CivilDate(day)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Week is one planned week inside a phase.
type Week struct {
	ID                     uuid.UUID `json:"id"`
	PhaseID                uuid.UUID `json:"phase_id"`
	WeekNumber             int       `json:"week_number"`
	StartDate              time.Time `json:"start_date"` // civil date, UTC midnight
	EndDate                time.Time `json:"end_date"`
	TargetKm               *float64  `json:"target_km,omitempty"`
	TargetElevation        *float64  `json:"target_elevation,omitempty"`
	TargetHours            *float64  `json:"target_hours,omitempty"`
	TargetStrengthSessions *int      `json:"target_strength_sessions,omitempty"`
	Notes                  *string   `json:"notes,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// NewWeek creates a Week with a generated UUID.
func NewWeek(phaseID uuid.UUID, weekNumber int, startDate, endDate time.Time) *Week {
	return &Week{
		ID:         uuid.New(),
		PhaseID:    phaseID,
		WeekNumber: weekNumber,
		StartDate:  CivilDate(startDate),
		EndDate:    CivilDate(endDate),
		CreatedAt:  time.Now().UTC(),
	}
}

// WithTargetKm sets the weekly distance target.
func (w *Week) WithTargetKm(km float64) *Week {
	w.TargetKm = &km
	return w
}

// WithNotes sets planner notes on the week.
func (w *Week) WithNotes(notes string) *Week {
	w.Notes = &notes
	return w
}

// EndExclusive returns the first instant after the week. An activity
// matches the week when StartDate <= activity date < EndExclusive, so
// the entire end day is included.
func (w *Week) EndExclusive() time.Time {
	return CivilDate(w.EndDate).AddDate(0, 0, 1)
}

// Contains reports whether the instant falls inside the week, counting
// the full end day.
func (w *Week) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(w.StartDate) && u.Before(w.EndExclusive())
}

// PlannedWorkout is a single scheduled session within a week. Several
// workouts may share a date (e.g. a run and a strength session).
type PlannedWorkout struct {
	ID                    uuid.UUID `json:"id"`
	WeekID                uuid.UUID `json:"week_id"`
	Date                  time.Time `json:"date"` // civil date, UTC midnight
	WorkoutType           string    `json:"workout_type"`
	Title                 *string   `json:"title,omitempty"`
	Description           *string   `json:"description,omitempty"`
	TargetKm              *float64  `json:"target_km,omitempty"`
	TargetDurationMinutes *int      `json:"target_duration_minutes,omitempty"`
	TargetElevation       *float64  `json:"target_elevation,omitempty"`
	Intensity             *string   `json:"intensity,omitempty"` // easy, moderate, hard
	RaceCountdown         *int      `json:"race_countdown,omitempty"`
	IsKeyWorkout          bool      `json:"is_key_workout"`
	CreatedAt             time.Time `json:"created_at"`
}

// NewPlannedWorkout creates a PlannedWorkout with a generated UUID.
func NewPlannedWorkout(weekID uuid.UUID, date time.Time, workoutType string) *PlannedWorkout {
	return &PlannedWorkout{
		ID:          uuid.New(),
		WeekID:      weekID,
		Date:        CivilDate(date),
		WorkoutType: workoutType,
		CreatedAt:   time.Now().UTC(),
	}
}

// WithTitle sets the display title.
func (pw *PlannedWorkout) WithTitle(title string) *PlannedWorkout {
	pw.Title = &title
	return pw
}

// WithTargetKm sets the session distance target.
func (pw *PlannedWorkout) WithTargetKm(km float64) *PlannedWorkout {
	pw.TargetKm = &km
	return pw
}

// KeyWorkout flags the session as a key workout.
func (pw *PlannedWorkout) KeyWorkout() *PlannedWorkout {
	pw.IsKeyWorkout = true
	return pw
}

// CivilDate truncates a timestamp to its UTC calendar day.
func CivilDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
