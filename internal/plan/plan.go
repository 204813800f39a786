// ABOUTME: Training plan authoring: phases, weeks, and planned workouts.
// ABOUTME: Accepts single records or a whole nested JSON document.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

// ErrInvalid marks input problems the caller can correct, as opposed
// to storage failures.
var ErrInvalid = errors.New("invalid plan input")

// Document is a full plan: phases nest weeks, weeks nest workouts.
type Document struct {
	Phases []PhaseInput `json:"phases"`
}

// PhaseInput describes one training phase. Weeks are optional; a phase
// can be created first and filled in later.
type PhaseInput struct {
	Name                string      `json:"name" binding:"required"`
	Description         *string     `json:"description"`
	StartDate           string      `json:"start_date" binding:"required"`
	EndDate             string      `json:"end_date" binding:"required"`
	WeeklyKmTargetStart *float64    `json:"weekly_km_target_start"`
	WeeklyKmTargetEnd   *float64    `json:"weekly_km_target_end"`
	LongRunTargetKm     *float64    `json:"long_run_target_km"`
	FocusAreas          []string    `json:"focus_areas"`
	Weeks               []WeekInput `json:"weeks"`
}

// WeekInput describes one plan week inside a phase.
type WeekInput struct {
	WeekNumber             int            `json:"week_number" binding:"required"`
	StartDate              string         `json:"start_date" binding:"required"`
	EndDate                string         `json:"end_date" binding:"required"`
	TargetKm               *float64       `json:"target_km"`
	TargetElevation        *float64       `json:"target_elevation"`
	TargetHours            *float64       `json:"target_hours"`
	TargetStrengthSessions *int           `json:"target_strength_sessions"`
	Notes                  *string        `json:"notes"`
	Workouts               []WorkoutInput `json:"workouts"`
}

// WorkoutInput describes one planned session.
type WorkoutInput struct {
	Date                  string   `json:"date" binding:"required"`
	WorkoutType           string   `json:"workout_type" binding:"required"`
	Title                 *string  `json:"title"`
	Description           *string  `json:"description"`
	TargetKm              *float64 `json:"target_km"`
	TargetDurationMinutes *int     `json:"target_duration_minutes"`
	TargetElevation       *float64 `json:"target_elevation"`
	Intensity             *string  `json:"intensity"`
	RaceCountdown         *int     `json:"race_countdown"`
	IsKeyWorkout          bool     `json:"is_key_workout"`
}

// Result counts what an import created.
type Result struct {
	Phases   int `json:"phases"`
	Weeks    int `json:"weeks"`
	Workouts int `json:"workouts"`
}

// Import reads a nested plan document and creates everything in it.
// Records are created in document order; on error the earlier records
// stay, so imports should run against a fresh or known-good database.
func Import(repo storage.Repository, r io.Reader) (*Result, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if len(doc.Phases) == 0 {
		return nil, fmt.Errorf("%w: plan has no phases", ErrInvalid)
	}

	res := &Result{}
	for i := range doc.Phases {
		if _, _, err := AddPhase(repo, &doc.Phases[i], res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// AddPhase creates a phase along with any nested weeks and workouts.
func AddPhase(repo storage.Repository, in *PhaseInput, res *Result) (*models.Phase, *Result, error) {
	if res == nil {
		res = &Result{}
	}
	phase, err := in.model()
	if err != nil {
		return nil, nil, err
	}
	if err := repo.CreatePhase(phase); err != nil {
		return nil, nil, err
	}
	res.Phases++

	for i := range in.Weeks {
		if _, _, err := AddWeek(repo, phase.ID, &in.Weeks[i], res); err != nil {
			return nil, nil, err
		}
	}
	return phase, res, nil
}

// AddWeek creates one week under an existing phase, plus nested workouts.
func AddWeek(repo storage.Repository, phaseID uuid.UUID, in *WeekInput, res *Result) (*models.Week, *Result, error) {
	if res == nil {
		res = &Result{}
	}
	week, err := in.model(phaseID)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.CreateWeek(week); err != nil {
		return nil, nil, err
	}
	res.Weeks++

	for i := range in.Workouts {
		if _, err := AddWorkout(repo, week.ID, &in.Workouts[i], res); err != nil {
			return nil, nil, err
		}
	}
	return week, res, nil
}

// AddWorkout creates a single planned session under an existing week.
func AddWorkout(repo storage.Repository, weekID uuid.UUID, in *WorkoutInput, res *Result) (*models.PlannedWorkout, error) {
	pw, err := in.model(weekID)
	if err != nil {
		return nil, err
	}
	if err := repo.CreatePlannedWorkout(pw); err != nil {
		return nil, err
	}
	if res != nil {
		res.Workouts++
	}
	return pw, nil
}

func (in *PhaseInput) model() (*models.Phase, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: phase name is required", ErrInvalid)
	}
	start, err := parseDate(in.StartDate, "phase start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseDate(in.EndDate, "phase end_date")
	if err != nil {
		return nil, err
	}

	p := models.NewPhase(in.Name, start, end)
	p.Description = in.Description
	p.WeeklyKmTargetStart = in.WeeklyKmTargetStart
	p.WeeklyKmTargetEnd = in.WeeklyKmTargetEnd
	p.LongRunTargetKm = in.LongRunTargetKm
	p.FocusAreas = in.FocusAreas
	return p, nil
}

func (in *WeekInput) model(phaseID uuid.UUID) (*models.Week, error) {
	if in.WeekNumber < 1 {
		return nil, fmt.Errorf("%w: week_number must be positive, got %d", ErrInvalid, in.WeekNumber)
	}
	start, err := parseDate(in.StartDate, "week start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseDate(in.EndDate, "week end_date")
	if err != nil {
		return nil, err
	}

	w := models.NewWeek(phaseID, in.WeekNumber, start, end)
	w.TargetKm = in.TargetKm
	w.TargetElevation = in.TargetElevation
	w.TargetHours = in.TargetHours
	w.TargetStrengthSessions = in.TargetStrengthSessions
	w.Notes = in.Notes
	return w, nil
}

func (in *WorkoutInput) model(weekID uuid.UUID) (*models.PlannedWorkout, error) {
	if in.WorkoutType == "" {
		return nil, fmt.Errorf("%w: workout_type is required", ErrInvalid)
	}
	date, err := parseDate(in.Date, "workout date")
	if err != nil {
		return nil, err
	}

	pw := models.NewPlannedWorkout(weekID, date, in.WorkoutType)
	pw.Title = in.Title
	pw.Description = in.Description
	pw.TargetKm = in.TargetKm
	pw.TargetDurationMinutes = in.TargetDurationMinutes
	pw.TargetElevation = in.TargetElevation
	pw.Intensity = in.Intensity
	pw.RaceCountdown = in.RaceCountdown
	pw.IsKeyWorkout = in.IsKeyWorkout
	return pw, nil
}

func parseDate(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalid, field)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", ErrInvalid, field, s)
	}
	return t, nil
}
