package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/HackNC/resume-parser/internal/testutil"
)

func newService() *Service {
	return NewWithCost(testutil.NewMemRepo(), bcrypt.MinCost)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := testutil.NewMemRepo()
	svc := NewWithCost(repo, bcrypt.MinCost)

	u, err := svc.CreateUser(context.Background(), "  organizer ", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "organizer", u.Name)
	assert.NotEqual(t, "correct horse", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse")))

	stored, err := repo.GetUserByName(context.Background(), "organizer")
	require.NoError(t, err)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}

func TestCreateUserValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "", "long enough")
	assert.Error(t, err)

	_, err = svc.CreateUser(ctx, "organizer", "short")
	assert.Error(t, err)

	_, err = svc.CreateUser(ctx, "organizer", "long enough")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "organizer", "another one")
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestVerifyUser(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	created, err := svc.CreateUser(ctx, "organizer", "correct horse")
	require.NoError(t, err)

	tests := []struct {
		name     string
		user     string
		password string
		wantErr  error
	}{
		{name: "correct password", user: "organizer", password: "correct horse"},
		{name: "wrong password", user: "organizer", password: "battery staple", wantErr: ErrInvalidCredentials},
		{name: "unknown user", user: "nobody", password: "correct horse", wantErr: ErrInvalidCredentials},
		{name: "empty password", user: "organizer", password: "", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.VerifyUser(ctx, tt.user, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, u.ID)
		})
	}
}

func TestGetUser(t *testing.T) {
	svc := newService()
	created, err := svc.CreateUser(context.Background(), "organizer", "correct horse")
	require.NoError(t, err)

	got, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "organizer", got.Name)

	_, err = svc.GetUser(context.Background(), "missing")
	assert.Error(t, err)
}
