// ABOUTME: The AI coach: builds a prompt for a week and asks the model.
// ABOUTME: Every call is recorded as an AIAnalysis row for later audit.
package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/trainer/internal/anthropic"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

// Analysis is the result of one coach call.
type Analysis struct {
	Analysis string `json:"analysis"`
	Model    string `json:"model"`
}

// Analyzer produces coaching feedback for plan weeks.
type Analyzer struct {
	repo     storage.Repository
	client   *anthropic.Client
	raceDate time.Time
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(repo storage.Repository, client *anthropic.Client, raceDate time.Time, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		repo:     repo,
		client:   client,
		raceDate: raceDate,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze builds the context for a week, asks the model, and records the
// exchange. Unknown analysis types get the generic assessment prompt.
func (a *Analyzer) Analyze(ctx context.Context, weekID uuid.UUID, analysisType string) (*Analysis, error) {
	week, err := a.repo.GetWeek(weekID)
	if err != nil {
		return nil, err
	}

	ac, err := BuildContext(a.repo, week, a.raceDate, a.now())
	if err != nil {
		return nil, err
	}

	userPrompt := UserPrompt(analysisType, ac)
	response, err := a.client.Complete(ctx, SystemPrompt(), userPrompt)
	if err != nil {
		return nil, fmt.Errorf("anthropic completion: %w", err)
	}

	record := models.NewAIAnalysis(weekID, analysisType, a.client.Model(), userPrompt, response)
	if err := a.repo.CreateAIAnalysis(record); err != nil {
		return nil, fmt.Errorf("record analysis: %w", err)
	}

	a.logger.Info("ai analysis complete",
		zap.Stringer("week_id", weekID),
		zap.String("type", analysisType),
		zap.Int("response_chars", len(response)))

	return &Analysis{Analysis: response, Model: a.client.Model()}, nil
}
