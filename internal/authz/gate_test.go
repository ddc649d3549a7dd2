package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

func TestCanPerform(t *testing.T) {
	gated := []Action{
		ActionApproveProposal,
		ActionRejectProposal,
		ActionDeleteProposal,
		ActionDeleteOpportunity,
		ActionAssignOpportunity,
		ActionDeleteClient,
	}

	t.Run("sales rep alone is denied all gated actions", func(t *testing.T) {
		roles := []domain.UserRoleType{domain.RoleSalesRep}
		for _, action := range gated {
			assert.False(t, CanPerform(action, roles), "action %s", action)
		}
	})

	t.Run("sales manager is permitted all gated actions", func(t *testing.T) {
		roles := []domain.UserRoleType{domain.RoleSalesManager}
		for _, action := range gated {
			assert.True(t, CanPerform(action, roles), "action %s", action)
		}
	})

	t.Run("admin is permitted all gated actions", func(t *testing.T) {
		roles := []domain.UserRoleType{domain.RoleAdmin}
		for _, action := range gated {
			assert.True(t, CanPerform(action, roles), "action %s", action)
		}
	})

	t.Run("rep with manager role is permitted", func(t *testing.T) {
		roles := []domain.UserRoleType{domain.RoleSalesRep, domain.RoleSalesManager}
		assert.True(t, CanPerform(ActionApproveProposal, roles))
	})

	t.Run("ungated action is open to any caller", func(t *testing.T) {
		assert.True(t, CanPerform(Action("submit-proposal"), []domain.UserRoleType{domain.RoleSalesRep}))
		assert.True(t, CanPerform(Action("change-stage"), nil))
	})

	t.Run("empty role set is denied gated actions", func(t *testing.T) {
		assert.False(t, CanPerform(ActionDeleteOpportunity, nil))
	})
}
