package store

import (
	"context"
	"errors"
	"testing"

	"ruangkampus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollection struct {
	loans []models.Loan
	err   error
	calls int
}

func (f *fakeCollection) List(ctx context.Context) ([]models.Loan, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
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
	for i := range f.loans {
		if f.loans[i].ID == loan.ID {
			f.loans[i] = loan
			return &loan, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeCollection) Delete(ctx context.Context, id int64) error {
	for i := range f.loans {
		if f.loans[i].ID == id {
			f.loans = append(f.loans[:i], f.loans[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func seedLoans() []models.Loan {
	return []models.Loan{
		{ID: 1, BorrowerName: "budi", RoomName: "Ruang Seminar A", Purpose: "Rapat BEM", Status: models.StatusPending},
		{ID: 2, BorrowerName: "siti", RoomName: "Aula Utama", Purpose: "Seminar Proposal", Status: models.StatusApproved},
		{ID: 3, BorrowerName: "budi", RoomName: "Lab Komputer 1", Purpose: "Praktikum", Status: models.StatusRejected},
	}
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	coll := &fakeCollection{loans: seedLoans()}
	s := NewLoanStore(coll)

	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, 3, s.Len())

	// A remote deletion disappears from the snapshot on the next refresh
	// even though the store never deleted anything locally.
	require.NoError(t, coll.Delete(context.Background(), 2))
	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, 2, s.Len())
	_, ok := s.Get(2)
	assert.False(t, ok)
}

func TestRefreshIsIdempotent(t *testing.T) {
	coll := &fakeCollection{loans: seedLoans()}
	s := NewLoanStore(coll)

	require.NoError(t, s.Refresh(context.Background()))
	first := s.Loans()
	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, first, s.Loans())
	assert.Equal(t, 2, coll.calls)
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	coll := &fakeCollection{loans: seedLoans()}
	s := NewLoanStore(coll)
	require.NoError(t, s.Refresh(context.Background()))

	coll.err = errors.New("connection refused")
	err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, s.Len())
}

func TestLoansReturnsCopy(t *testing.T) {
	coll := &fakeCollection{loans: seedLoans()}
	s := NewLoanStore(coll)
	require.NoError(t, s.Refresh(context.Background()))

	loans := s.Loans()
	loans[0].BorrowerName = "mutated"

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "budi", got.BorrowerName)
}

func TestFilterByStatus(t *testing.T) {
	coll := &fakeCollection{loans: seedLoans()}
	s := NewLoanStore(coll)
	require.NoError(t, s.Refresh(context.Background()))

	pending := s.Filter(models.StatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].ID)

	assert.Empty(t, s.Filter("Archived"))
}

func TestMine(t *testing.T) {
	coll := &fakeCollection{loans: seedLoans()}
	s := NewLoanStore(coll)
	require.NoError(t, s.Refresh(context.Background()))

	mine := s.Mine("budi")
	require.Len(t, mine, 2)
	assert.Empty(t, s.Mine(""))
}

func TestSearch(t *testing.T) {
	coll := &fakeCollection{loans: seedLoans()}
	s := NewLoanStore(coll)
	require.NoError(t, s.Refresh(context.Background()))

	tests := []struct {
		query string
		want  int
	}{
		{"seminar", 2}, // room "Ruang Seminar A" and purpose "Seminar Proposal"
		{"BUDI", 2},
		{"praktikum", 1},
		{"", 3},
		{"zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Len(t, s.Search(tt.query), tt.want)
		})
	}
}

func TestCountByStatus(t *testing.T) {
	coll := &fakeCollection{loans: seedLoans()}
	s := NewLoanStore(coll)
	require.NoError(t, s.Refresh(context.Background()))

	counts := s.CountByStatus()
	assert.Equal(t, 1, counts[models.StatusPending])
	assert.Equal(t, 1, counts[models.StatusApproved])
	assert.Equal(t, 1, counts[models.StatusRejected])
}
