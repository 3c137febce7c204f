package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"ruangkampus/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyRepo struct {
	inner *MemoryDraftRepository
	fail  bool
	calls int
}

func (r *flakyRepo) GetDraft(ctx context.Context, owner string) (*models.Draft, error) {
	r.calls++
	if r.fail {
		return nil, errors.New("connection refused")
	}
	return r.inner.GetDraft(ctx, owner)
}

func (r *flakyRepo) SetDraft(ctx context.Context, draft *models.Draft) error {
	r.calls++
	if r.fail {
		return errors.New("connection refused")
	}
	return r.inner.SetDraft(ctx, draft)
}

func (r *flakyRepo) ClearDraft(ctx context.Context, owner string) error {
	r.calls++
	if r.fail {
		return errors.New("connection refused")
	}
	return r.inner.ClearDraft(ctx, owner)
}

func (r *flakyRepo) CheckRateLimit(ctx context.Context, owner string, limit int, window time.Duration) (bool, error) {
	r.calls++
	if r.fail {
		return false, errors.New("connection refused")
	}
	return r.inner.CheckRateLimit(ctx, owner, limit, window)
}

func TestFailoverUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &flakyRepo{inner: NewMemoryDraftRepository(time.Hour)}
	fallback := NewMemoryDraftRepository(time.Hour)
	nop := zerolog.Nop()
	repo := NewFailoverDraftRepository(primary, fallback, &nop)
	ctx := context.Background()

	require.NoError(t, repo.SetDraft(ctx, &models.Draft{Owner: "budi", Purpose: "Rapat"}))

	got, err := repo.GetDraft(ctx, "budi")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Rapat", got.Purpose)

	fromFallback, err := fallback.GetDraft(ctx, "budi")
	require.NoError(t, err)
	assert.Nil(t, fromFallback)
}

func TestFailoverSwitchesToFallback(t *testing.T) {
	primary := &flakyRepo{inner: NewMemoryDraftRepository(time.Hour), fail: true}
	fallback := NewMemoryDraftRepository(time.Hour)
	nop := zerolog.Nop()
	repo := NewFailoverDraftRepository(primary, fallback, &nop)
	ctx := context.Background()

	require.NoError(t, repo.SetDraft(ctx, &models.Draft{Owner: "siti", Purpose: "Seminar"}))

	got, err := repo.GetDraft(ctx, "siti")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Seminar", got.Purpose)
}

func TestFailoverStopsHittingPrimaryWhileDown(t *testing.T) {
	primary := &flakyRepo{inner: NewMemoryDraftRepository(time.Hour), fail: true}
	fallback := NewMemoryDraftRepository(time.Hour)
	nop := zerolog.Nop()
	repo := NewFailoverDraftRepository(primary, fallback, &nop)
	ctx := context.Background()

	_ = repo.SetDraft(ctx, &models.Draft{Owner: "a"})
	callsAfterFirst := primary.calls

	_ = repo.SetDraft(ctx, &models.Draft{Owner: "b"})
	_, _ = repo.GetDraft(ctx, "a")
	assert.Equal(t, callsAfterFirst, primary.calls)
}
