package store

import (
	"context"
	"strings"
	"sync"

	"ruangkampus/internal/domain"
	"ruangkampus/internal/models"
)

// LoanStore holds the local snapshot of the loan collection. It never mutates
// the snapshot in place: every change goes to the remote collection first and
// the snapshot is then replaced wholesale by Refresh.
type LoanStore struct {
	collection domain.LoanCollection

	mu    sync.RWMutex
	loans []models.Loan
}

func NewLoanStore(collection domain.LoanCollection) *LoanStore {
	return &LoanStore{collection: collection, loans: []models.Loan{}}
}

// Refresh re-fetches the full collection and swaps the snapshot. On error the
// previous snapshot is kept untouched.
func (s *LoanStore) Refresh(ctx context.Context) error {
	loans, err := s.collection.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.loans = loans
	s.mu.Unlock()
	return nil
}

// Loans returns a copy of the current snapshot.
func (s *LoanStore) Loans() []models.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Loan, len(s.loans))
	copy(out, s.loans)
	return out
}

func (s *LoanStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loans)
}

// Get returns the snapshot record with the given id, if present.
func (s *LoanStore) Get(id int64) (models.Loan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, loan := range s.loans {
		if loan.ID == id {
			return loan, true
		}
	}
	return models.Loan{}, false
}

// Filter returns the loans with the given status, in snapshot order.
func (s *LoanStore) Filter(status string) []models.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Loan
	for _, loan := range s.loans {
		if loan.Status == status {
			out = append(out, loan)
		}
	}
	return out
}

// Mine returns the loans owned by the given borrower.
func (s *LoanStore) Mine(borrower string) []models.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Loan
	for _, loan := range s.loans {
		if loan.OwnedBy(borrower) {
			out = append(out, loan)
		}
	}
	return out
}

// Search matches the query case-insensitively against borrower name, room
// name and purpose. An empty query returns the full snapshot.
func (s *LoanStore) Search(query string) []models.Loan {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.Loans()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Loan
	for _, loan := range s.loans {
		if strings.Contains(strings.ToLower(loan.BorrowerName), query) ||
			strings.Contains(strings.ToLower(loan.RoomName), query) ||
			strings.Contains(strings.ToLower(loan.Purpose), query) {
			out = append(out, loan)
		}
	}
	return out
}

// CountByStatus tallies the snapshot per status.
func (s *LoanStore) CountByStatus() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, loan := range s.loans {
		counts[loan.Status]++
	}
	return counts
}
