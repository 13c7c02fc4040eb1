package database

import (
	"context"

	"github.com/HackNC/resume-parser/internal/models"
)

// Repository is the storage surface the services depend on.
// *DB is the PostgreSQL implementation; tests substitute in-memory fakes.
type Repository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	CreateCandidate(ctx context.Context, c *models.Candidate) error
	ListCandidates(ctx context.Context) ([]models.Candidate, error)

	// DeleteCandidate is not reachable from any route; it exists so index
	// cleanup has a storage counterpart once deletion is wanted.
	DeleteCandidate(ctx context.Context, id string) error

	HealthCheck(ctx context.Context) error
}

var _ Repository = (*DB)(nil)
