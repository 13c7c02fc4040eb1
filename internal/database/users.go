// users.go handles staff account database operations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HackNC/resume-parser/internal/models"
)

// CreateUser inserts a new user record. PasswordHash must already be set;
// hashing is the accounts service's job.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (name, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return db.QueryRowContext(ctx, query, u.Name, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
}

// GetUserByName retrieves a user by login name.
func (db *DB) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	err := db.GetContext(ctx, &u, `SELECT id, name, password_hash, created_at FROM users WHERE name = $1`, name)
	if err != nil {
		return nil, wrapLookup("user", err)
	}
	return &u, nil
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := db.GetContext(ctx, &u, `SELECT id, name, password_hash, created_at FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, wrapLookup("user", err)
	}
	return &u, nil
}

// wrapLookup maps sql.ErrNoRows to ErrNotFound and wraps everything else.
func wrapLookup(what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
