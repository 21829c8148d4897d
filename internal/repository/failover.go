package repository

import (
	"context"
	"sync/atomic"
	"time"

	"autorent/internal/domain"
	"autorent/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStateRepository prefers the primary store and degrades to the
// fallback once the primary errors. Recovery is attempted after a minute.
type FailoverStateRepository struct {
	primary  domain.StateRepository
	fallback domain.StateRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// Unix nanos of the last failed primary attempt; atomic because requests
	// race on it.
	lastCheck atomic.Int64
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverStateRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary state repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverStateRepository) GetChatState(ctx context.Context, userID string) (*models.ChatState, error) {
	if !r.isDown.Load() {
		state, err := r.primary.GetChatState(ctx, userID)
		if err == nil {
			return state, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute {
		state, err := r.primary.GetChatState(ctx, userID)
		if err == nil {
			r.isDown.Store(false)
			return state, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetChatState(ctx, userID)
}

func (r *FailoverStateRepository) SetChatState(ctx context.Context, state *models.ChatState) error {
	if !r.isDown.Load() {
		err := r.primary.SetChatState(ctx, state)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetChatState(ctx, state)
}

func (r *FailoverStateRepository) ClearChatState(ctx context.Context, userID string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearChatState(ctx, userID)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearChatState(ctx, userID)
}

func (r *FailoverStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
