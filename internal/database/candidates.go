// candidates.go handles candidate (résumé) database operations.
package database

import (
	"context"
	"fmt"

	"github.com/HackNC/resume-parser/internal/models"
)

// CreateCandidate inserts a candidate and fills in its generated ID.
// The ID is reused as the search document ID.
func (db *DB) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	query := `
		INSERT INTO candidates (name, filename, resume_text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := db.QueryRowContext(ctx, query, c.Name, c.Filename, c.ResumeText).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

// ListCandidates returns every candidate, oldest first.
func (db *DB) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := db.SelectContext(ctx, &candidates,
		`SELECT id, name, filename, resume_text, created_at FROM candidates ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// DeleteCandidate removes a candidate by ID.
func (db *DB) DeleteCandidate(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("candidate %w", ErrNotFound)
	}
	return nil
}
