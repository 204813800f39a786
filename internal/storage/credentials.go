// ABOUTME: Credential operations for SQLite storage.
// ABOUTME: One row per Strava athlete; refresh overwrites the token triple in place.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/harperreed/trainer/internal/models"
)

// UpsertCredential stores or replaces the OAuth token triple for an
// athlete. Refresh never creates a second row.
func (d *DB) UpsertCredential(c *models.Credential) error {
	var athleteData *string
	if len(c.AthleteData) > 0 {
		s := string(c.AthleteData)
		athleteData = &s
	}

	query := `
		INSERT INTO credentials (athlete_id, access_token, refresh_token,
			expires_at, athlete_data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(athlete_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			athlete_data = COALESCE(excluded.athlete_data, athlete_data),
			updated_at = excluded.updated_at
	`
	_, err := d.db.Exec(query,
		c.AthleteID,
		c.AccessToken,
		c.RefreshToken,
		c.ExpiresAt,
		athleteData,
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

const credentialColumns = `athlete_id, access_token, refresh_token,
	expires_at, athlete_data, updated_at`

// GetCredential retrieves the credential for an athlete.
func (d *DB) GetCredential(athleteID int64) (*models.Credential, error) {
	row := d.db.QueryRow(`SELECT `+credentialColumns+` FROM credentials WHERE athlete_id = ?`,
		athleteID)
	return scanCredential(row)
}

// ListCredentials retrieves all stored credentials. The deployment is
// expected to hold at most one; callers resolve ambiguity.
func (d *DB) ListCredentials() ([]*models.Credential, error) {
	rows, err := d.db.Query(`SELECT ` + credentialColumns + ` FROM credentials ORDER BY athlete_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var creds []*models.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, c)
	}
	return creds, rows.Err()
}

func scanCredential(row rowScanner) (*models.Credential, error) {
	var c models.Credential
	var athleteData *string
	var updatedStr string

	err := row.Scan(&c.AthleteID, &c.AccessToken, &c.RefreshToken,
		&c.ExpiresAt, &athleteData, &updatedStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan credential: %w", err)
	}

	if athleteData != nil {
		c.AthleteData = []byte(*athleteData)
	}
	if c.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, fmt.Errorf("parse credential updated at: %w", err)
	}
	return &c, nil
}
