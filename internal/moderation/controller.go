package moderation

import (
	"context"
	"fmt"

	"ruangkampus/internal/domain"
	"ruangkampus/internal/lifecycle"
	"ruangkampus/internal/models"
	"ruangkampus/internal/store"

	"github.com/rs/zerolog"
)

// ErrDeleteAborted is returned when the confirmation prompt declined the
// deletion. Nothing was written.
var ErrDeleteAborted = fmt.Errorf("deletion not confirmed")

// ConfirmFunc answers the destructive-action prompt. loanctl wires it to
// stdin; tests wire it to a constant.
type ConfirmFunc func(loan models.Loan) bool

// AdminController moderates pending requests. Every action asks the
// lifecycle engine first, performs exactly one write and refreshes the
// snapshot once.
type AdminController struct {
	actor   lifecycle.Actor
	coll    domain.LoanCollection
	store   *store.LoanStore
	confirm ConfirmFunc
	logger  zerolog.Logger
}

func NewAdminController(name string, coll domain.LoanCollection, st *store.LoanStore, confirm ConfirmFunc, logger *zerolog.Logger) *AdminController {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "moderation").Str("admin", name).Logger()
	}
	if confirm == nil {
		confirm = func(models.Loan) bool { return false }
	}
	return &AdminController{
		actor:   lifecycle.Actor{Name: name, Role: lifecycle.RoleAdmin},
		coll:    coll,
		store:   st,
		confirm: confirm,
		logger:  base,
	}
}

// Approve resolves a pending request positively.
func (c *AdminController) Approve(ctx context.Context, id int64) (*models.Loan, error) {
	return c.resolve(ctx, id, lifecycle.ActionApprove)
}

// Reject resolves a pending request negatively.
func (c *AdminController) Reject(ctx context.Context, id int64) (*models.Loan, error) {
	return c.resolve(ctx, id, lifecycle.ActionReject)
}

func (c *AdminController) resolve(ctx context.Context, id int64, action lifecycle.Action) (*models.Loan, error) {
	loan, ok := c.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("loan %d not in snapshot", id)
	}
	if err := lifecycle.Require(c.actor, loan, action); err != nil {
		return nil, err
	}

	target, ok := lifecycle.TargetStatus(action)
	if !ok {
		return nil, fmt.Errorf("action %s has no target status", action)
	}
	loan.Status = target

	updated, err := c.coll.Update(ctx, loan)
	if err != nil {
		return nil, err
	}
	if err := c.store.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Snapshot refresh after moderation failed")
	}

	c.logger.Info().Int64("loan_id", id).Str("action", string(action)).Msg("Request resolved")
	return updated, nil
}

// Delete removes a request in any status. The confirmation prompt runs
// before any network traffic; declining aborts with ErrDeleteAborted.
func (c *AdminController) Delete(ctx context.Context, id int64) error {
	loan, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("loan %d not in snapshot", id)
	}
	if err := lifecycle.Require(c.actor, loan, lifecycle.ActionDelete); err != nil {
		return err
	}
	if !c.confirm(loan) {
		return ErrDeleteAborted
	}

	if err := c.coll.Delete(ctx, id); err != nil {
		return err
	}
	if err := c.store.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Snapshot refresh after delete failed")
	}

	c.logger.Info().Int64("loan_id", id).Msg("Request deleted")
	return nil
}

// Pending lists the requests still waiting for a decision.
func (c *AdminController) Pending() []models.Loan {
	return c.store.Filter(models.StatusPending)
}
