package session

import (
	"context"
	"sync"
	"time"

	"ruangkampus/internal/models"
)

// MemoryDraftRepository keeps compose drafts in process memory. It is the
// fallback behind the Redis repository and the default for loanctl runs
// without Redis configured.
type MemoryDraftRepository struct {
	drafts     sync.Map
	rateLimits sync.Map
	ttl        time.Duration
}

func NewMemoryDraftRepository(ttl time.Duration) *MemoryDraftRepository {
	return &MemoryDraftRepository{ttl: ttl}
}

func (r *MemoryDraftRepository) GetDraft(ctx context.Context, owner string) (*models.Draft, error) {
	val, ok := r.drafts.Load(owner)
	if !ok {
		return nil, nil
	}
	draft := val.(*models.Draft)
	if r.ttl > 0 && time.Since(draft.UpdatedAt) > r.ttl {
		r.drafts.Delete(owner)
		return nil, nil
	}
	return draft, nil
}

func (r *MemoryDraftRepository) SetDraft(ctx context.Context, draft *models.Draft) error {
	draft.UpdatedAt = time.Now()
	r.drafts.Store(draft.Owner, draft)
	return nil
}

func (r *MemoryDraftRepository) ClearDraft(ctx context.Context, owner string) error {
	r.drafts.Delete(owner)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryDraftRepository) CheckRateLimit(ctx context.Context, owner string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(owner)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(owner, entry)
	return entry.count <= limit, nil
}
