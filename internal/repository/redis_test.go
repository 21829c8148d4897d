package repository

import (
	"context"
	"testing"
	"time"

	"autorent/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStateRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisStateRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetChatState", func(t *testing.T) {
		state := &models.ChatState{
			UserID: "user-1",
			Messages: []models.ChatMessage{
				{Role: "user", Content: "what cars do you have?"},
				{Role: "assistant", Content: "We have several."},
			},
		}

		err := repo.SetChatState(ctx, state)
		require.NoError(t, err)

		got, err := repo.GetChatState(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, state.UserID, got.UserID)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "what cars do you have?", got.Messages[0].Content)
	})

	t.Run("GetNonExistentState", func(t *testing.T) {
		got, err := repo.GetChatState(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearChatState", func(t *testing.T) {
		state := &models.ChatState{UserID: "user-2"}
		repo.SetChatState(ctx, state)

		err := repo.ClearChatState(ctx, "user-2")
		require.NoError(t, err)

		got, _ := repo.GetChatState(ctx, "user-2")
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		key := "user-3"
		limit := 2
		window := time.Second

		allowed, err := repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisStateRepository(nil, time.Hour)
		_, err := repo.GetChatState(ctx, "user-1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		err := Ping(ctx, client)
		assert.NoError(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		err := Close(client)
		assert.NoError(t, err)
	})
}
