package workflow

import (
	"context"
	"fmt"
	"time"

	"ruangkampus/internal/catalog"
	"ruangkampus/internal/domain"
	"ruangkampus/internal/lifecycle"
	"ruangkampus/internal/models"
	"ruangkampus/internal/store"
	"ruangkampus/internal/validation"

	"github.com/rs/zerolog"
)

// Phase is where the compose flow currently stands. Submitting only exists
// while Confirm is running; every flow ends back at Composing.
type Phase string

const (
	PhaseComposing  Phase = "composing"
	PhaseConfirming Phase = "confirming"
	PhaseSubmitting Phase = "submitting"
)

// Result acknowledges a successful submission. Created distinguishes a new
// request from an edit saved in place.
type Result struct {
	Created bool
	Loan    models.Loan
}

// ErrNotConfirming is returned when Confirm or CancelConfirm is called
// outside the confirmation gate.
var ErrNotConfirming = fmt.Errorf("no submission awaiting confirmation")

// ErrRateLimited is returned when the owner submitted too many requests
// within the configured window.
var ErrRateLimited = fmt.Errorf("too many submissions, try again later")

// Controller drives one user's request flow: compose a draft, validate it,
// pass the confirmation gate, write through the collection and refresh the
// shared snapshot. The borrower identity is pinned at construction and can
// never be composed over.
type Controller struct {
	identity string
	coll     domain.LoanCollection
	store    *store.LoanStore
	drafts   domain.DraftRepository
	catalog  *catalog.Catalog
	logger   zerolog.Logger
	now      func() time.Time

	submitLimit  int
	submitWindow time.Duration

	phase Phase
	draft models.Draft
}

type Option func(*Controller)

// WithSubmitLimit caps successful submissions per owner inside the window.
func WithSubmitLimit(limit int, window time.Duration) Option {
	return func(c *Controller) {
		c.submitLimit = limit
		c.submitWindow = window
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func NewController(identity string, coll domain.LoanCollection, st *store.LoanStore, drafts domain.DraftRepository, cat *catalog.Catalog, logger *zerolog.Logger, opts ...Option) *Controller {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "workflow").Str("owner", identity).Logger()
	}
	c := &Controller{
		identity: identity,
		coll:     coll,
		store:    st,
		drafts:   drafts,
		catalog:  cat,
		logger:   base,
		now:      time.Now,
		phase:    PhaseComposing,
		draft:    models.Draft{Owner: identity},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore loads a previously saved draft for this identity, if any. A draft
// saved mid-confirmation reopens at the gate.
func (c *Controller) Restore(ctx context.Context) error {
	saved, err := c.drafts.GetDraft(ctx, c.identity)
	if err != nil {
		return err
	}
	if saved == nil || saved.Owner != c.identity {
		return nil
	}
	c.draft = *saved
	if c.draft.Confirming {
		c.phase = PhaseConfirming
	}
	return nil
}

func (c *Controller) Phase() Phase        { return c.phase }
func (c *Controller) Draft() models.Draft { return c.draft }
func (c *Controller) Identity() string    { return c.identity }

func (c *Controller) SetRoom(ctx context.Context, name string) error {
	if c.phase != PhaseComposing {
		return fmt.Errorf("cannot edit fields in phase %s", c.phase)
	}
	// Store the canonical name when the input resolves; validation will
	// reject anything that stayed unresolved.
	if room, ok := c.catalog.Resolve(name); ok {
		name = room.NameID
	}
	c.draft.RoomName = name
	return c.saveDraft(ctx)
}

func (c *Controller) SetTimes(ctx context.Context, start, end time.Time) error {
	if c.phase != PhaseComposing {
		return fmt.Errorf("cannot edit fields in phase %s", c.phase)
	}
	c.draft.StartTime = &start
	c.draft.EndTime = &end
	return c.saveDraft(ctx)
}

func (c *Controller) SetPurpose(ctx context.Context, purpose string) error {
	if c.phase != PhaseComposing {
		return fmt.Errorf("cannot edit fields in phase %s", c.phase)
	}
	c.draft.Purpose = purpose
	return c.saveDraft(ctx)
}

// Submit validates the draft. On success the flow moves to the confirmation
// gate; no write happens yet. On failure the draft is kept as-is so the user
// can fix the offending field.
func (c *Controller) Submit(ctx context.Context) error {
	if c.phase != PhaseComposing {
		return fmt.Errorf("cannot submit in phase %s", c.phase)
	}

	candidate := c.draft.Loan()
	candidate.BorrowerName = c.identity
	if err := validation.Validate(candidate, c.catalog, c.now()); err != nil {
		c.logger.Debug().Err(err).Msg("Draft failed validation")
		return err
	}

	c.phase = PhaseConfirming
	c.draft.Confirming = true
	return c.saveDraft(ctx)
}

// Confirm performs the actual write: create for a fresh draft, update for an
// edit. The snapshot is refreshed unconditionally after a successful write.
// On transport failure the draft survives and the gate stays open.
func (c *Controller) Confirm(ctx context.Context) (*Result, error) {
	if c.phase != PhaseConfirming {
		return nil, ErrNotConfirming
	}

	if c.draft.Editing() {
		if err := c.requireEditable(ctx); err != nil {
			c.logger.Warn().Err(err).Int64("loan_id", c.draft.EditingID).Msg("Edit target no longer editable")
			c.phase = PhaseComposing
			c.draft.Confirming = false
			_ = c.saveDraft(ctx)
			return nil, err
		}
	}

	if c.submitLimit > 0 {
		allowed, err := c.drafts.CheckRateLimit(ctx, c.identity, c.submitLimit, c.submitWindow)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Rate limit check failed, allowing submission")
		} else if !allowed {
			return nil, ErrRateLimited
		}
	}

	c.phase = PhaseSubmitting

	candidate := c.draft.Loan()
	candidate.BorrowerName = c.identity
	candidate.Status = models.StatusPending

	var (
		saved   *models.Loan
		err     error
		created = !c.draft.Editing()
	)
	if created {
		saved, err = c.coll.Create(ctx, candidate)
	} else {
		saved, err = c.coll.Update(ctx, candidate)
	}
	if err != nil {
		c.logger.Error().Err(err).Bool("create", created).Msg("Submission failed")
		c.phase = PhaseConfirming
		return nil, err
	}

	if err := c.store.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Snapshot refresh after submit failed")
	}

	c.draft.Reset()
	c.phase = PhaseComposing
	if err := c.drafts.ClearDraft(ctx, c.identity); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear saved draft")
	}

	c.logger.Info().Int64("loan_id", saved.ID).Bool("created", created).Msg("Request submitted")
	return &Result{Created: created, Loan: *saved}, nil
}

// requireEditable re-checks the edit target right before the write. A
// restored draft may point at a record that was resolved or removed since
// the edit began, and the gate itself is the last stop before the network.
func (c *Controller) requireEditable(ctx context.Context) error {
	if err := c.store.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Snapshot refresh before edit check failed")
	}
	loan, ok := c.store.Get(c.draft.EditingID)
	if !ok {
		return fmt.Errorf("loan %d: %w", c.draft.EditingID, lifecycle.ErrTransitionDenied)
	}
	actor := lifecycle.Actor{Name: c.identity, Role: lifecycle.RoleUser}
	return lifecycle.Require(actor, loan, lifecycle.ActionEdit)
}

// CancelConfirm steps back from the gate to composing; the draft is kept.
func (c *Controller) CancelConfirm(ctx context.Context) error {
	if c.phase != PhaseConfirming {
		return ErrNotConfirming
	}
	c.phase = PhaseComposing
	c.draft.Confirming = false
	return c.saveDraft(ctx)
}

// BeginEdit copies an owned pending record into the draft for in-place
// editing. Records that may not be edited leave the controller untouched.
func (c *Controller) BeginEdit(ctx context.Context, id int64) error {
	loan, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("loan %d not in snapshot", id)
	}

	actor := lifecycle.Actor{Name: c.identity, Role: lifecycle.RoleUser}
	if err := lifecycle.Require(actor, loan, lifecycle.ActionEdit); err != nil {
		return err
	}

	start, end := loan.StartTime, loan.EndTime
	c.draft = models.Draft{
		Owner:     c.identity,
		RoomName:  loan.RoomName,
		StartTime: &start,
		EndTime:   &end,
		Purpose:   loan.Purpose,
		EditingID: loan.ID,
	}
	c.phase = PhaseComposing
	return c.saveDraft(ctx)
}

// CancelEdit drops the draft locally. No network traffic.
func (c *Controller) CancelEdit(ctx context.Context) error {
	c.draft.Reset()
	c.phase = PhaseComposing
	return c.drafts.ClearDraft(ctx, c.identity)
}

func (c *Controller) saveDraft(ctx context.Context) error {
	draft := c.draft
	if err := c.drafts.SetDraft(ctx, &draft); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to persist draft")
		return err
	}
	c.draft.UpdatedAt = draft.UpdatedAt
	return nil
}
