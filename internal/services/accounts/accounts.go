// Package accounts manages staff logins: creating users with hashed
// passwords and verifying credentials.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/HackNC/resume-parser/internal/database"
	"github.com/HackNC/resume-parser/internal/models"
)

var (
	// ErrInvalidCredentials covers both an unknown name and a wrong password.
	ErrInvalidCredentials = errors.New("invalid name or password")
	// ErrNameTaken is returned when creating a user whose name already exists.
	ErrNameTaken = errors.New("user name already exists")
)

// MinPasswordLength is the shortest password CreateUser accepts.
const MinPasswordLength = 8

// UserStore is the storage the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Service creates and authenticates users.
type Service struct {
	store UserStore
	cost  int
}

// New returns a service hashing with bcrypt's default cost.
func New(store UserStore) *Service {
	return &Service{store: store, cost: bcrypt.DefaultCost}
}

// NewWithCost is New with an explicit bcrypt cost (tests use MinCost).
func NewWithCost(store UserStore, cost int) *Service {
	return &Service{store: store, cost: cost}
}

// CreateUser hashes the password and stores a new user.
func (s *Service) CreateUser(ctx context.Context, name, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("user name is required")
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	// The users table doesn't enforce unique names, so check here.
	existing, err := s.store.GetUserByName(ctx, name)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{Name: name, PasswordHash: string(hash)}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// VerifyUser returns the user when password matches the stored hash.
func (s *Service) VerifyUser(ctx context.Context, name, password string) (*models.User, error) {
	u, err := s.store.GetUserByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser looks a user up by ID (session and token validation).
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}
