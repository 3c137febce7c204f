package lifecycle

import (
	"testing"

	"ruangkampus/internal/models"

	"github.com/stretchr/testify/assert"
)

var (
	owner    = Actor{Name: "budi", Role: RoleUser}
	stranger = Actor{Name: "siti", Role: RoleUser}
	admin    = Actor{Name: "pak-admin", Role: RoleAdmin}
)

func loanWithStatus(status string) models.Loan {
	return models.Loan{ID: 1, BorrowerName: "budi", Status: status}
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		status string
		action Action
		want   bool
	}{
		{"admin approves pending", admin, models.StatusPending, ActionApprove, true},
		{"admin rejects pending", admin, models.StatusPending, ActionReject, true},
		{"user cannot approve", owner, models.StatusPending, ActionApprove, false},
		{"user cannot reject", stranger, models.StatusPending, ActionReject, false},
		{"admin cannot approve approved", admin, models.StatusApproved, ActionApprove, false},
		{"admin cannot re-reject", admin, models.StatusRejected, ActionReject, false},
		{"admin cannot flip approved to rejected", admin, models.StatusApproved, ActionReject, false},

		{"owner edits pending", owner, models.StatusPending, ActionEdit, true},
		{"stranger cannot edit", stranger, models.StatusPending, ActionEdit, false},
		{"owner cannot edit approved", owner, models.StatusApproved, ActionEdit, false},
		{"owner cannot edit rejected", owner, models.StatusRejected, ActionEdit, false},
		{"admin cannot edit someone else's", admin, models.StatusPending, ActionEdit, false},

		{"owner deletes pending", owner, models.StatusPending, ActionDelete, true},
		{"stranger cannot delete", stranger, models.StatusPending, ActionDelete, false},
		{"owner cannot delete approved", owner, models.StatusApproved, ActionDelete, false},
		{"owner cannot delete rejected", owner, models.StatusRejected, ActionDelete, false},
		{"admin deletes pending", admin, models.StatusPending, ActionDelete, true},
		{"admin deletes approved", admin, models.StatusApproved, ActionDelete, true},
		{"admin deletes rejected", admin, models.StatusRejected, ActionDelete, true},

		{"unknown status denies everything", admin, "Draft", ActionDelete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanTransition(tt.actor, loanWithStatus(tt.status), tt.action)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNonPendingLocksOwnerActions(t *testing.T) {
	// Once resolved, neither edit nor owner-delete is legal for any role
	// acting as the record's owner.
	for _, status := range []string{models.StatusApproved, models.StatusRejected} {
		loan := loanWithStatus(status)
		assert.False(t, CanTransition(owner, loan, ActionEdit), status)
		assert.False(t, CanTransition(owner, loan, ActionDelete), status)

		adminOwner := Actor{Name: "budi", Role: RoleAdmin}
		assert.False(t, CanTransition(adminOwner, loan, ActionEdit), status)
	}
}

func TestRequire(t *testing.T) {
	err := Require(stranger, loanWithStatus(models.StatusPending), ActionDelete)
	assert.ErrorIs(t, err, ErrTransitionDenied)

	assert.NoError(t, Require(admin, loanWithStatus(models.StatusPending), ActionApprove))
}

func TestAllowedActions(t *testing.T) {
	pending := loanWithStatus(models.StatusPending)

	assert.Equal(t, []Action{ActionEdit, ActionDelete}, AllowedActions(owner, pending))
	assert.Equal(t, []Action{ActionApprove, ActionReject, ActionDelete}, AllowedActions(admin, pending))
	assert.Equal(t, []Action{ActionDelete}, AllowedActions(admin, loanWithStatus(models.StatusApproved)))
	assert.Empty(t, AllowedActions(owner, loanWithStatus(models.StatusRejected)))
}

func TestTargetStatus(t *testing.T) {
	status, ok := TargetStatus(ActionApprove)
	assert.True(t, ok)
	assert.Equal(t, models.StatusApproved, status)

	status, ok = TargetStatus(ActionReject)
	assert.True(t, ok)
	assert.Equal(t, models.StatusRejected, status)

	_, ok = TargetStatus(ActionEdit)
	assert.False(t, ok)
}
