// Package testutil holds fakes and fixtures shared by package tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/HackNC/resume-parser/internal/database"
	"github.com/HackNC/resume-parser/internal/models"
)

// MemRepo is an in-memory database.Repository.
type MemRepo struct {
	mu         sync.Mutex
	nextID     int
	users      []models.User
	candidates []models.Candidate

	// FailCandidate makes CreateCandidate fail for the given name.
	FailCandidate string
	// LookupErr makes GetUserByName fail.
	LookupErr error
	// HealthErr is returned by HealthCheck.
	HealthErr error
}

var _ database.Repository = (*MemRepo)(nil)

// NewMemRepo returns an empty repository.
func NewMemRepo() *MemRepo {
	return &MemRepo{}
}

func (r *MemRepo) id(prefix string) string {
	r.nextID++
	return fmt.Sprintf("%s-%d", prefix, r.nextID)
}

func (r *MemRepo) CreateUser(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.id("u")
	u.CreatedAt = time.Now()
	r.users = append(r.users, *u)
	return nil
}

func (r *MemRepo) GetUserByName(_ context.Context, name string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.LookupErr != nil {
		return nil, r.LookupErr
	}
	for _, u := range r.users {
		if u.Name == name {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %w", database.ErrNotFound)
}

func (r *MemRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %w", database.ErrNotFound)
}

func (r *MemRepo) CreateCandidate(_ context.Context, c *models.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCandidate != "" && c.Name == r.FailCandidate {
		return errors.New("insert failed")
	}
	c.ID = r.id("c")
	c.CreatedAt = time.Now()
	r.candidates = append(r.candidates, *c)
	return nil
}

func (r *MemRepo) ListCandidates(context.Context) ([]models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Candidate(nil), r.candidates...), nil
}

func (r *MemRepo) DeleteCandidate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.candidates {
		if c.ID == id {
			r.candidates = append(r.candidates[:i], r.candidates[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("candidate %w", database.ErrNotFound)
}

func (r *MemRepo) HealthCheck(context.Context) error {
	return r.HealthErr
}
