package lifecycle

import (
	"errors"
	"fmt"

	"ruangkampus/internal/models"
)

// Role of the acting identity.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Action is a client-triggered transition on a loan record.
type Action string

const (
	ActionEdit    Action = "edit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionDelete  Action = "delete"
)

// Actor is the identity attempting an action.
type Actor struct {
	Name string
	Role Role
}

// ErrTransitionDenied is returned when an action is not legal for the
// current (actor, status) pair.
var ErrTransitionDenied = errors.New("transition not allowed")

// CanTransition is the single source of truth for which actions are legal
// on a record. Both the presentation side (deciding what to offer) and the
// mutation entry points (rejecting direct calls) consult it; it must always
// be evaluated against the freshest fetched state.
//
// The table:
//
//	Pending  -> Approved  admin only
//	Pending  -> Rejected  admin only
//	Pending  -> Pending   owner edit
//	Pending  -> gone      owner or admin delete
//	Approved -> gone      admin delete only
//	Rejected -> gone      admin delete only
//
// Approved and Rejected are terminal for status changes; nothing ever
// transitions back to Pending.
func CanTransition(actor Actor, loan models.Loan, action Action) bool {
	if !models.ValidStatus(loan.Status) {
		return false
	}

	switch action {
	case ActionApprove, ActionReject:
		return actor.Role == RoleAdmin && loan.IsPending()
	case ActionEdit:
		return loan.OwnedBy(actor.Name) && loan.IsPending()
	case ActionDelete:
		if actor.Role == RoleAdmin {
			return true
		}
		return loan.OwnedBy(actor.Name) && loan.IsPending()
	default:
		return false
	}
}

// Require is the defensive form of CanTransition for mutation entry points.
func Require(actor Actor, loan models.Loan, action Action) error {
	if !CanTransition(actor, loan, action) {
		return fmt.Errorf("%s on loan %d (status %s) by %s: %w",
			action, loan.ID, loan.Status, actor.Name, ErrTransitionDenied)
	}
	return nil
}

// AllowedActions lists the legal actions for the actor on this record, in a
// stable order. Used to decide what the presentation layer offers.
func AllowedActions(actor Actor, loan models.Loan) []Action {
	var actions []Action
	for _, action := range []Action{ActionEdit, ActionApprove, ActionReject, ActionDelete} {
		if CanTransition(actor, loan, action) {
			actions = append(actions, action)
		}
	}
	return actions
}

// TargetStatus returns the status a resolving action leads to.
func TargetStatus(action Action) (string, bool) {
	switch action {
	case ActionApprove:
		return models.StatusApproved, true
	case ActionReject:
		return models.StatusRejected, true
	default:
		return "", false
	}
}
