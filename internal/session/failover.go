package session

import (
	"context"
	"sync/atomic"
	"time"

	"ruangkampus/internal/domain"
	"ruangkampus/internal/models"

	"github.com/rs/zerolog"
)

// FailoverDraftRepository prefers the primary repository and falls back to
// the secondary when the primary errors. After a minute it probes the
// primary again on the next read.
type FailoverDraftRepository struct {
	primary   domain.DraftRepository
	fallback  domain.DraftRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverDraftRepository(primary, fallback domain.DraftRepository, logger *zerolog.Logger) *FailoverDraftRepository {
	return &FailoverDraftRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverDraftRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary draft repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverDraftRepository) GetDraft(ctx context.Context, owner string) (*models.Draft, error) {
	if !r.isDown.Load() {
		draft, err := r.primary.GetDraft(ctx, owner)
		if err == nil {
			return draft, nil
		}
		r.markDown(err)
	}

	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		draft, err := r.primary.GetDraft(ctx, owner)
		if err == nil {
			r.isDown.Store(false)
			return draft, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetDraft(ctx, owner)
}

func (r *FailoverDraftRepository) SetDraft(ctx context.Context, draft *models.Draft) error {
	if !r.isDown.Load() {
		err := r.primary.SetDraft(ctx, draft)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetDraft(ctx, draft)
}

func (r *FailoverDraftRepository) ClearDraft(ctx context.Context, owner string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearDraft(ctx, owner)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearDraft(ctx, owner)
}

func (r *FailoverDraftRepository) CheckRateLimit(ctx context.Context, owner string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, owner, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, owner, limit, window)
}
