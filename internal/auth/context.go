package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user_context"

// UserContext holds the authenticated caller's identity for a request.
// The core never reaches into ambient globals for the caller; this value is
// carried on the request context and passed down explicitly.
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Roles       []domain.UserRoleType
}

// WithUserContext stores the user context on ctx
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext retrieves the user context from ctx
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext retrieves the user context or panics. Only for handlers
// behind the Authenticate middleware.
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context missing: handler reached without authentication")
	}
	return user
}

// HasRole checks whether the caller holds the given role
func (u *UserContext) HasRole(role domain.UserRoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks whether the caller holds at least one of the given roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsSalesRepOnly reports whether the caller's sole role is the base sales rep
// role. Such callers are scoped to records they own when listing
// opportunities; the restriction is a query filter, not an authorization
// wall.
func (u *UserContext) IsSalesRepOnly() bool {
	if len(u.Roles) == 0 {
		return false
	}
	for _, r := range u.Roles {
		if r != domain.RoleSalesRep {
			return false
		}
	}
	return true
}

// RolesAsStrings returns the roles as plain strings for logging
func (u *UserContext) RolesAsStrings() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = string(r)
	}
	return out
}
