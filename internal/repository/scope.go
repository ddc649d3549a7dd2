package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/auth"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// ApplyOwnerFilter applies the sales-rep owner scoping filter to a query.
// When no filter is set on the context the query is returned unchanged.
func ApplyOwnerFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	ownerID := auth.GetEffectiveOwnerFilter(ctx)
	if ownerID != nil {
		return query.Where("owner_id = ?", *ownerID)
	}
	return query
}

// ApplyOwnerFilterWithColumn applies the owner filter using a qualified
// column name, for joined queries.
func ApplyOwnerFilterWithColumn(ctx context.Context, query *gorm.DB, columnName string) *gorm.DB {
	ownerID := auth.GetEffectiveOwnerFilter(ctx)
	if ownerID != nil {
		return query.Where(columnName+" = ?", *ownerID)
	}
	return query
}
