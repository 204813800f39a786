// ABOUTME: WeeklySummary operations for SQLite storage.
// ABOUTME: Full replace-on-conflict keyed by week id; never a partial patch.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

// UpsertWeeklySummary writes the computed summary for a week, replacing
// every derived field when one already exists.
func (d *DB) UpsertWeeklySummary(s *models.WeeklySummary) error {
	query := `
		INSERT INTO weekly_summaries (id, week_id, actual_km, actual_elevation,
			actual_hours, actual_activities, completion_percentage, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(week_id) DO UPDATE SET
			actual_km = excluded.actual_km,
			actual_elevation = excluded.actual_elevation,
			actual_hours = excluded.actual_hours,
			actual_activities = excluded.actual_activities,
			completion_percentage = excluded.completion_percentage,
			updated_at = excluded.updated_at
	`
	_, err := d.db.Exec(query,
		s.ID.String(),
		s.WeekID.String(),
		s.ActualKm,
		s.ActualElevation,
		s.ActualHours,
		s.ActualActivities,
		s.CompletionPercentage,
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert weekly summary: %w", err)
	}

	// The conflict clause keeps the stored id, so read it back to keep
	// the struct consistent with the row.
	var idStr string
	err = d.db.QueryRow(`SELECT id FROM weekly_summaries WHERE week_id = ?`,
		s.WeekID.String()).Scan(&idStr)
	if err != nil {
		return fmt.Errorf("read weekly summary id: %w", err)
	}
	if s.ID, err = uuid.Parse(idStr); err != nil {
		return fmt.Errorf("parse weekly summary id: %w", err)
	}
	return nil
}

const summaryColumns = `id, week_id, actual_km, actual_elevation,
	actual_hours, actual_activities, completion_percentage, updated_at`

// GetWeeklySummary retrieves the summary for a week.
func (d *DB) GetWeeklySummary(weekID uuid.UUID) (*models.WeeklySummary, error) {
	row := d.db.QueryRow(`SELECT `+summaryColumns+` FROM weekly_summaries WHERE week_id = ?`,
		weekID.String())
	return scanSummary(row)
}

// ListWeeklySummaries retrieves all summaries.
func (d *DB) ListWeeklySummaries() ([]*models.WeeklySummary, error) {
	rows, err := d.db.Query(`SELECT ` + summaryColumns + ` FROM weekly_summaries`)
	if err != nil {
		return nil, fmt.Errorf("list weekly summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*models.WeeklySummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func scanSummary(row rowScanner) (*models.WeeklySummary, error) {
	var s models.WeeklySummary
	var idStr, weekIDStr, updatedStr string

	err := row.Scan(&idStr, &weekIDStr, &s.ActualKm, &s.ActualElevation,
		&s.ActualHours, &s.ActualActivities, &s.CompletionPercentage, &updatedStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan weekly summary: %w", err)
	}

	if s.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse summary id: %w", err)
	}
	if s.WeekID, err = uuid.Parse(weekIDStr); err != nil {
		return nil, fmt.Errorf("parse summary week id: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, fmt.Errorf("parse summary updated at: %w", err)
	}
	return &s, nil
}
