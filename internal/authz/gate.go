// Package authz implements the role allow-list gating destructive and
// approval actions. The gate is a pure predicate with no side effects; it is
// checked both client-side before a mutating call is issued and server-side
// in the service layer. A backend decision always wins over the local gate.
package authz

import "github.com/jason-govender/salesflow-api/internal/domain"

// Action identifies a gated operation
type Action string

const (
	ActionApproveProposal   Action = "approve-proposal"
	ActionRejectProposal    Action = "reject-proposal"
	ActionDeleteProposal    Action = "delete-proposal"
	ActionDeleteOpportunity Action = "delete-opportunity"
	ActionAssignOpportunity Action = "assign-opportunity"
	ActionDeleteClient      Action = "delete-client"
)

// managerActions require an elevated role. Actions absent from this map are
// open to any authenticated caller.
var managerActions = map[Action][]domain.UserRoleType{
	ActionApproveProposal:   {domain.RoleAdmin, domain.RoleSalesManager},
	ActionRejectProposal:    {domain.RoleAdmin, domain.RoleSalesManager},
	ActionDeleteProposal:    {domain.RoleAdmin, domain.RoleSalesManager},
	ActionDeleteOpportunity: {domain.RoleAdmin, domain.RoleSalesManager},
	ActionAssignOpportunity: {domain.RoleAdmin, domain.RoleSalesManager},
	ActionDeleteClient:      {domain.RoleAdmin, domain.RoleSalesManager},
}

// CanPerform reports whether a caller holding the given roles may perform the
// action.
func CanPerform(action Action, roles []domain.UserRoleType) bool {
	allowed, gated := managerActions[action]
	if !gated {
		return true
	}
	for _, want := range allowed {
		for _, have := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
