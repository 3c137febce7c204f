package moderation

import (
	"context"
	"errors"
	"testing"

	"ruangkampus/internal/lifecycle"
	"ruangkampus/internal/models"
	"ruangkampus/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollection struct {
	loans   []models.Loan
	updates int
	deletes int
	lists   int
}

func (f *fakeCollection) List(ctx context.Context) ([]models.Loan, error) {
	f.lists++
	out := make([]models.Loan, len(f.loans))
	copy(out, f.loans)
	return out, nil
}

func (f *fakeCollection) Create(ctx context.Context, loan models.Loan) (*models.Loan, error) {
	loan.ID = int64(len(f.loans) + 1)
	f.loans = append(f.loans, loan)
	return &loan, nil
}

func (f *fakeCollection) Update(ctx context.Context, loan models.Loan) (*models.Loan, error) {
	f.updates++
	for i := range f.loans {
		if f.loans[i].ID == loan.ID {
			f.loans[i] = loan
			return &loan, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeCollection) Delete(ctx context.Context, id int64) error {
	f.deletes++
	for i := range f.loans {
		if f.loans[i].ID == id {
			f.loans = append(f.loans[:i], f.loans[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func confirmAlways(models.Loan) bool { return true }
func confirmNever(models.Loan) bool  { return false }

func newModeration(t *testing.T, confirm ConfirmFunc, loans ...models.Loan) (*AdminController, *fakeCollection, *store.LoanStore) {
	t.Helper()
	coll := &fakeCollection{loans: loans}
	st := store.NewLoanStore(coll)
	require.NoError(t, st.Refresh(context.Background()))
	return NewAdminController("pak-agus", coll, st, confirm, nil), coll, st
}

func TestApprovePending(t *testing.T) {
	c, coll, st := newModeration(t, confirmNever,
		models.Loan{ID: 1, BorrowerName: "budi", Status: models.StatusPending})
	ctx := context.Background()

	updated, err := c.Approve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, 1, coll.updates)

	got, ok := st.Get(1)
	require.True(t, ok)
	assert.Equal(t, models.StatusApproved, got.Status, "snapshot refreshed")
}

func TestRejectPending(t *testing.T) {
	c, _, st := newModeration(t, confirmNever,
		models.Loan{ID: 1, BorrowerName: "budi", Status: models.StatusPending})

	updated, err := c.Reject(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)

	got, _ := st.Get(1)
	assert.Equal(t, models.StatusRejected, got.Status)
}

func TestResolveTerminalDenied(t *testing.T) {
	c, coll, _ := newModeration(t, confirmNever,
		models.Loan{ID: 1, BorrowerName: "budi", Status: models.StatusApproved},
		models.Loan{ID: 2, BorrowerName: "siti", Status: models.StatusRejected})
	ctx := context.Background()

	_, err := c.Approve(ctx, 1)
	assert.ErrorIs(t, err, lifecycle.ErrTransitionDenied)

	_, err = c.Reject(ctx, 2)
	assert.ErrorIs(t, err, lifecycle.ErrTransitionDenied)

	_, err = c.Approve(ctx, 2)
	assert.ErrorIs(t, err, lifecycle.ErrTransitionDenied, "nothing re-resolves a rejected request")

	assert.Zero(t, coll.updates, "no write on denied transitions")
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	c, coll, st := newModeration(t, confirmNever,
		models.Loan{ID: 1, BorrowerName: "budi", Status: models.StatusPending})

	err := c.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrDeleteAborted)
	assert.Zero(t, coll.deletes, "declined prompt means no network traffic")
	assert.Equal(t, 1, st.Len())
}

func TestDeleteConfirmed(t *testing.T) {
	var prompted models.Loan
	confirm := func(loan models.Loan) bool {
		prompted = loan
		return true
	}
	c, coll, st := newModeration(t, confirm,
		models.Loan{ID: 1, BorrowerName: "budi", Status: models.StatusApproved})

	require.NoError(t, c.Delete(context.Background(), 1))
	assert.Equal(t, int64(1), prompted.ID, "prompt sees the record being removed")
	assert.Equal(t, 1, coll.deletes)
	assert.Zero(t, st.Len(), "snapshot refreshed after delete")
}

func TestDeleteAnyStatusAsAdmin(t *testing.T) {
	c, _, st := newModeration(t, confirmAlways,
		models.Loan{ID: 1, Status: models.StatusPending},
		models.Loan{ID: 2, Status: models.StatusApproved},
		models.Loan{ID: 3, Status: models.StatusRejected})
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, c.Delete(ctx, id))
	}
	assert.Zero(t, st.Len())
}

func TestUnknownLoan(t *testing.T) {
	c, _, _ := newModeration(t, confirmAlways)

	_, err := c.Approve(context.Background(), 404)
	assert.Error(t, err)
	err = c.Delete(context.Background(), 404)
	assert.Error(t, err)
}

func TestPendingQueue(t *testing.T) {
	c, _, _ := newModeration(t, confirmNever,
		models.Loan{ID: 1, Status: models.StatusPending},
		models.Loan{ID: 2, Status: models.StatusApproved},
		models.Loan{ID: 3, Status: models.StatusPending})

	pending := c.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, int64(1), pending[0].ID)
	assert.Equal(t, int64(3), pending[1].ID)
}
