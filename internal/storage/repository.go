// ABOUTME: Repository interface for training-plan storage.
// ABOUTME: Defines the contract the sync, rollup, coach, and HTTP layers build on.
package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

// Repository defines the storage interface for the training tracker.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Phase operations
	CreatePhase(p *models.Phase) error
	GetPhase(id uuid.UUID) (*models.Phase, error)
	ListPhases() ([]*models.Phase, error)
	CurrentPhase(today time.Time) (*models.Phase, error)

	// Week operations
	CreateWeek(w *models.Week) error
	GetWeek(id uuid.UUID) (*models.Week, error)
	ListWeeks() ([]*models.Week, error)
	CurrentWeek(today time.Time) (*models.Week, error)

	// Planned workout operations
	CreatePlannedWorkout(pw *models.PlannedWorkout) error
	ListPlannedWorkoutsByWeek(weekID uuid.UUID) ([]*models.PlannedWorkout, error)
	ListPlannedWorkoutsByDate(date time.Time) ([]*models.PlannedWorkout, error)

	// Activity operations
	UpsertActivity(a *models.Activity) error
	ActivityExists(stravaID int64) (bool, error)
	LatestActivityDate() (*time.Time, error)
	ListActivities(limit int) ([]*models.Activity, error)
	ListActivitiesInRange(start, endExclusive time.Time) ([]*models.Activity, error)

	// Weekly summary operations
	UpsertWeeklySummary(s *models.WeeklySummary) error
	GetWeeklySummary(weekID uuid.UUID) (*models.WeeklySummary, error)
	ListWeeklySummaries() ([]*models.WeeklySummary, error)

	// Credential operations
	UpsertCredential(c *models.Credential) error
	GetCredential(athleteID int64) (*models.Credential, error)
	ListCredentials() ([]*models.Credential, error)

	// Journal operations
	CreateLifestyleLog(l *models.LifestyleLog) error
	ListLifestyleLogs(limit int) ([]*models.LifestyleLog, error)
	CreateAIAnalysis(a *models.AIAnalysis) error
	CreateGoal(g *models.Goal) error
	ListGoals() ([]*models.Goal, error)

	// Lifecycle
	Close() error
}
