package service

import (
	"context"
	"testing"

	"autorent/internal/auth"
	"autorent/internal/database"
	"autorent/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).Return(nil)

		logger := zerolog.Nop()
		svc := NewUserService(repo, &logger)

		user, err := svc.Register(ctx, " Alice@Example.COM ", "secret1", "Alice")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.NotEqual(t, "secret1", user.Password)
		assert.True(t, auth.CheckPassword("secret1", user.Password))
		repo.AssertExpectations(t)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		logger := zerolog.Nop()
		svc := NewUserService(new(mockRepo), &logger)

		_, err := svc.Register(ctx, "bob@example.com", "12345", "Bob")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("ShortName", func(t *testing.T) {
		logger := zerolog.Nop()
		svc := NewUserService(new(mockRepo), &logger)

		_, err := svc.Register(ctx, "bob@example.com", "123456", "B")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("BadEmail", func(t *testing.T) {
		logger := zerolog.Nop()
		svc := NewUserService(new(mockRepo), &logger)

		_, err := svc.Register(ctx, "not-an-email", "123456", "Bob")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).Return(database.ErrDuplicate)

		logger := zerolog.Nop()
		svc := NewUserService(repo, &logger)

		_, err := svc.Register(ctx, "alice@example.com", "secret1", "Alice")
		assert.ErrorIs(t, err, database.ErrDuplicate)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	stored := &models.User{ID: "user-1", Email: "alice@example.com", Password: hash, Role: models.RoleUser}

	t.Run("Success", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetUserByEmail", ctx, "alice@example.com").Return(stored, nil)

		logger := zerolog.Nop()
		svc := NewUserService(repo, &logger)

		user, err := svc.Login(ctx, "Alice@Example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetUserByEmail", ctx, "alice@example.com").Return(stored, nil)

		logger := zerolog.Nop()
		svc := NewUserService(repo, &logger)

		_, err := svc.Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, database.ErrNotFound)

		logger := zerolog.Nop()
		svc := NewUserService(repo, &logger)

		_, err := svc.Login(ctx, "ghost@example.com", "whatever")
		// Indistinguishable from a wrong password.
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
