package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/contentflow/config"
	"github.com/d60-Lab/contentflow/internal/repository"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	db := setupTestDB(t)
	return NewUserService(repository.NewUserRepository(db), config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
}

func TestCreateUserAndLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "a@example.com", "Alice", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "hunter22", user.Password) // stored hashed

	token, got, err := svc.Login(ctx, "a@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	_, _, err = svc.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "dup@example.com", "First", "")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "dup@example.com", "Second", "")
	assert.Error(t, err) // unique constraint passes through
}

func TestLoginWithoutPassword(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "nopass@example.com", "NoPass", "")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "nopass@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
