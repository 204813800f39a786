// ABOUTME: LifestyleLog, AIAnalysis, and Goal operations for SQLite storage.
// ABOUTME: Plain inserts and lists; no lifecycle logic beyond that.
package storage

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

// CreateLifestyleLog stores a daily lifestyle entry.
func (d *DB) CreateLifestyleLog(l *models.LifestyleLog) error {
	query := `
		INSERT INTO lifestyle_logs (id, date, sleep_hours, sleep_quality,
			weight_kg, energy_level, soreness_level, stress_level, notes,
			no_sugar, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		l.ID.String(),
		formatDate(l.Date),
		l.SleepHours,
		l.SleepQuality,
		l.WeightKg,
		l.EnergyLevel,
		l.SorenessLevel,
		l.StressLevel,
		l.Notes,
		l.NoSugar,
		formatTime(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create lifestyle log: %w", err)
	}
	return nil
}

// ListLifestyleLogs retrieves lifestyle entries, most recent first.
func (d *DB) ListLifestyleLogs(limit int) ([]*models.LifestyleLog, error) {
	query := `
		SELECT id, date, sleep_hours, sleep_quality, weight_kg, energy_level,
			soreness_level, stress_level, notes, no_sugar, created_at
		FROM lifestyle_logs
		ORDER BY date DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lifestyle logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.LifestyleLog
	for rows.Next() {
		var l models.LifestyleLog
		var idStr, dateStr, createdStr string

		err := rows.Scan(&idStr, &dateStr, &l.SleepHours, &l.SleepQuality,
			&l.WeightKg, &l.EnergyLevel, &l.SorenessLevel, &l.StressLevel,
			&l.Notes, &l.NoSugar, &createdStr)
		if err != nil {
			return nil, fmt.Errorf("scan lifestyle log: %w", err)
		}

		if l.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse lifestyle log id: %w", err)
		}
		if l.Date, err = parseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse lifestyle log date: %w", err)
		}
		if l.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("parse lifestyle log created at: %w", err)
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// CreateAIAnalysis records one coach call.
func (d *DB) CreateAIAnalysis(a *models.AIAnalysis) error {
	var weekID *string
	if a.WeekID != nil {
		s := a.WeekID.String()
		weekID = &s
	}

	query := `
		INSERT INTO ai_analyses (id, week_id, analysis_type, ai_model, prompt,
			response, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		a.ID.String(),
		weekID,
		a.AnalysisType,
		a.AIModel,
		a.Prompt,
		a.Response,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create ai analysis: %w", err)
	}
	return nil
}

// CreateGoal stores a long-range goal.
func (d *DB) CreateGoal(g *models.Goal) error {
	var targetDate *string
	if g.TargetDate != nil {
		s := formatDate(*g.TargetDate)
		targetDate = &s
	}
	var completedAt *string
	if g.CompletedAt != nil {
		s := formatTime(*g.CompletedAt)
		completedAt = &s
	}

	query := `
		INSERT INTO goals (id, title, description, target_date, goal_type,
			target_value, current_value, is_completed, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		g.ID.String(),
		g.Title,
		g.Description,
		targetDate,
		g.GoalType,
		g.TargetValue,
		g.CurrentValue,
		g.IsCompleted,
		completedAt,
		formatTime(g.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// ListGoals retrieves all goals, oldest first.
func (d *DB) ListGoals() ([]*models.Goal, error) {
	rows, err := d.db.Query(`
		SELECT id, title, description, target_date, goal_type, target_value,
			current_value, is_completed, completed_at, created_at
		FROM goals
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		var g models.Goal
		var idStr, createdStr string
		var targetDate, completedAt *string

		err := rows.Scan(&idStr, &g.Title, &g.Description, &targetDate, &g.GoalType,
			&g.TargetValue, &g.CurrentValue, &g.IsCompleted, &completedAt, &createdStr)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}

		if g.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse goal id: %w", err)
		}
		if targetDate != nil {
			t, err := parseDate(*targetDate)
			if err != nil {
				return nil, fmt.Errorf("parse goal target date: %w", err)
			}
			g.TargetDate = &t
		}
		if completedAt != nil {
			t, err := parseTime(*completedAt)
			if err != nil {
				return nil, fmt.Errorf("parse goal completed at: %w", err)
			}
			g.CompletedAt = &t
		}
		if g.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("parse goal created at: %w", err)
		}
		goals = append(goals, &g)
	}
	return goals, rows.Err()
}
