// Package testutil provides shared helpers for service and handler tests: an
// in-memory sqlite database migrated to the current schema, and context
// builders that stand in for the authentication middleware.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jason-govender/salesflow-api/internal/auth"
	"github.com/jason-govender/salesflow-api/internal/database"
	"github.com/jason-govender/salesflow-api/internal/domain"
)

// SetupTestDB opens a fresh in-memory sqlite database and migrates the full
// schema. Each call gets its own database, so tests stay independent.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps every pooled connection on the same
	// in-memory database, while the unique name isolates tests from each
	// other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "failed to open in-memory database")

	require.NoError(t, database.AutoMigrate(db), "failed to migrate schema")

	return db
}

// ManagerContext returns a context authenticated as a sales manager.
func ManagerContext() context.Context {
	return ContextWithRoles(domain.RoleSalesManager)
}

// AdminContext returns a context authenticated as an admin.
func AdminContext() context.Context {
	return ContextWithRoles(domain.RoleAdmin)
}

// RepContext returns a context authenticated as a sales rep only.
func RepContext() context.Context {
	return ContextWithRoles(domain.RoleSalesRep)
}

// ContextWithRoles builds an authenticated context with a random caller
// holding the given roles.
func ContextWithRoles(roles ...domain.UserRoleType) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test User",
		Email:       "test@example.com",
		Roles:       roles,
	})
}

// ContextForUser builds an authenticated context for a specific caller id.
func ContextForUser(userID uuid.UUID, roles ...domain.UserRoleType) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      userID,
		DisplayName: "Test User",
		Email:       "test@example.com",
		Roles:       roles,
	})
}

// CreateTestClient inserts a client row for use as a foreign-key target.
func CreateTestClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	t.Helper()
	c := &domain.Client{
		Name:   name,
		Email:  "client@example.com",
		Active: true,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateTestOpportunity inserts an opportunity owned by the given user.
func CreateTestOpportunity(t *testing.T, db *gorm.DB, clientID, ownerID uuid.UUID) *domain.Opportunity {
	t.Helper()
	o := &domain.Opportunity{
		ClientID:       clientID,
		Title:          "Test opportunity",
		EstimatedValue: 100000,
		Currency:       "ZAR",
		Stage:          domain.StageLead,
		Probability:    10,
		OwnerID:        ownerID,
	}
	require.NoError(t, db.Create(o).Error)
	return o
}
