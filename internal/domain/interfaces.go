package domain

import (
	"context"
	"time"

	"ruangkampus/internal/models"
)

// LoanRepository is the persistence surface behind the loan collection.
type LoanRepository interface {
	CreateLoan(ctx context.Context, loan *models.Loan) error
	GetLoan(ctx context.Context, id int64) (*models.Loan, error)
	UpdateLoan(ctx context.Context, loan *models.Loan) error
	DeleteLoan(ctx context.Context, id int64) error
	ListLoans(ctx context.Context) ([]models.Loan, error)
}

// LoanCollection is what the consuming side sees: the remote REST resource.
// Implementations never retry on their own; the caller decides.
type LoanCollection interface {
	List(ctx context.Context) ([]models.Loan, error)
	Create(ctx context.Context, loan models.Loan) (*models.Loan, error)
	Update(ctx context.Context, loan models.Loan) (*models.Loan, error)
	Delete(ctx context.Context, id int64) error
}

// DraftRepository stores per-identity compose drafts.
type DraftRepository interface {
	GetDraft(ctx context.Context, owner string) (*models.Draft, error)
	SetDraft(ctx context.Context, draft *models.Draft) error
	ClearDraft(ctx context.Context, owner string) error
	CheckRateLimit(ctx context.Context, owner string, limit int, window time.Duration) (bool, error)
}

// EventPublisher fans domain events out to subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
