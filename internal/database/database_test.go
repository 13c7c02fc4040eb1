package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackNC/resume-parser/internal/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return Wrap(sqlx.NewDb(raw, "postgres")), mock
}

func TestCreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+users\s*\(name,\s*password_hash\).*RETURNING\s+id,\s*created_at`).
		WithArgs("grace", "$2a$10$hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-1", created))

	u := &models.User{Name: "grace", PasswordHash: "$2a$10$hash"}
	require.NoError(t, db.CreateUser(context.Background(), u))
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, created, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByName(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM users WHERE name = \$1`).
					WithArgs("grace").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password_hash", "created_at"}).
						AddRow("u-1", "grace", "hash", time.Now()))
			},
			wantID: "u-1",
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM users WHERE name = \$1`).
					WithArgs("grace").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password_hash", "created_at"}))
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			u, err := db.GetUserByName(context.Background(), "grace")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, u.ID)
			assert.Equal(t, "hash", u.PasswordHash)
		})
	}
}

func TestGetUserByIDDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs("u-1").
		WillReturnError(errors.New("connection reset"))

	_, err := db.GetUserByID(context.Background(), "u-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCreateCandidate(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+candidates\s*\(name,\s*filename,\s*resume_text\).*RETURNING\s+id,\s*created_at`).
		WithArgs("Ada Lovelace", "resume.pdf", "analytical engine").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("c-1", time.Now()))

	c := &models.Candidate{Name: "Ada Lovelace", Filename: "resume.pdf", ResumeText: "analytical engine"}
	require.NoError(t, db.CreateCandidate(context.Background(), c))
	assert.Equal(t, "c-1", c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCandidateError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT\s+INTO\s+candidates`).WillReturnError(errors.New("disk full"))

	err := db.CreateCandidate(context.Background(), &models.Candidate{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create candidate")
}

func TestListCandidates(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, filename, resume_text, created_at FROM candidates ORDER BY`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "filename", "resume_text", "created_at"}).
			AddRow("c-1", "Ada Lovelace", "ada.pdf", "engines", now).
			AddRow("c-2", "Grace Hopper", "grace.pdf", "compilers", now))

	got, err := db.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Grace Hopper", got[1].Name)
	assert.Equal(t, "compilers", got[1].ResumeText)
}

func TestDeleteCandidate(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`DELETE FROM candidates WHERE id = \$1`).
			WithArgs("c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, db.DeleteCandidate(context.Background(), "c-1"))
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`DELETE FROM candidates WHERE id = \$1`).
			WithArgs("c-9").
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, db.DeleteCandidate(context.Background(), "c-9"), ErrNotFound)
	})
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_users.up.sql")
	assert.Contains(t, names, "000002_create_candidates.up.sql")
}
