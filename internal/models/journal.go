// ABOUTME: LifestyleLog, AIAnalysis, and Goal models.
// ABOUTME: Auxiliary entities read by the coach context builder; plain inserts.
package models

import (
	"time"

	"github.com/google/uuid"
)

// LifestyleLog is a daily self-report of sleep, weight, and recovery.
type LifestyleLog struct {
	ID            uuid.UUID `json:"id"`
	Date          time.Time `json:"date"` // civil date, UTC midnight
	SleepHours    *float64  `json:"sleep_hours,omitempty"`
	SleepQuality  *int      `json:"sleep_quality,omitempty"`
	WeightKg      *float64  `json:"weight_kg,omitempty"`
	EnergyLevel   *int      `json:"energy_level,omitempty"`
	SorenessLevel *int      `json:"soreness_level,omitempty"`
	StressLevel   *int      `json:"stress_level,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	NoSugar       *bool     `json:"no_sugar,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewLifestyleLog creates a LifestyleLog for the given day.
func NewLifestyleLog(date time.Time) *LifestyleLog {
	return &LifestyleLog{
		ID:        uuid.New(),
		Date:      CivilDate(date),
		CreatedAt: time.Now().UTC(),
	}
}

// AIAnalysis is an audit record of one coach call: the prompt sent and
// the prose that came back. Insert-only.
type AIAnalysis struct {
	ID           uuid.UUID  `json:"id"`
	WeekID       *uuid.UUID `json:"week_id,omitempty"`
	AnalysisType *string    `json:"analysis_type,omitempty"`
	AIModel      *string    `json:"ai_model,omitempty"`
	Prompt       *string    `json:"prompt,omitempty"`
	Response     *string    `json:"response,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewAIAnalysis creates an AIAnalysis record for a week.
func NewAIAnalysis(weekID uuid.UUID, analysisType, model, prompt, response string) *AIAnalysis {
	return &AIAnalysis{
		ID:           uuid.New(),
		WeekID:       &weekID,
		AnalysisType: &analysisType,
		AIModel:      &model,
		Prompt:       &prompt,
		Response:     &response,
		CreatedAt:    time.Now().UTC(),
	}
}

// Goal is a long-range objective (e.g. the race itself).
type Goal struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	GoalType     *string    `json:"goal_type,omitempty"`
	TargetValue  *float64   `json:"target_value,omitempty"`
	CurrentValue *float64   `json:"current_value,omitempty"`
	IsCompleted  bool       `json:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewGoal creates a Goal with a generated UUID.
func NewGoal(title string) *Goal {
	return &Goal{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
}
