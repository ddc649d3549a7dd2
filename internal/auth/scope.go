package auth

import (
	"context"

	"github.com/google/uuid"
)

const ownerFilterKey contextKey = "owner_filter"

// WithOwnerFilter stores an owner scoping filter on ctx. Set by the owner
// filter middleware for callers whose only role is sales rep: their list
// queries are restricted to opportunities they own. This is a query filter,
// not an authorization check.
func WithOwnerFilter(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerFilterKey, ownerID)
}

// GetEffectiveOwnerFilter returns the owner filter for the request, or nil
// when the caller may see all records.
func GetEffectiveOwnerFilter(ctx context.Context) *uuid.UUID {
	if ownerID, ok := ctx.Value(ownerFilterKey).(uuid.UUID); ok {
		return &ownerID
	}
	return nil
}
