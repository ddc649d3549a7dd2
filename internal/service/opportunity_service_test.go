package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/auth"
	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/repository"
	"github.com/jason-govender/salesflow-api/internal/service"
	"github.com/jason-govender/salesflow-api/internal/testutil"
)

func setupOpportunityService(t *testing.T) (*gorm.DB, *service.OpportunityService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewOpportunityService(
		repository.NewOpportunityRepository(db),
		repository.NewStageHistoryRepository(db),
		repository.NewUserRepository(db),
		repository.NewActivityRepository(db),
		zap.NewNop(),
	)
	return db, svc
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		ExternalRef: uuid.NewString(),
		DisplayName: name,
		Email:       "rep@example.com",
		Active:      true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestCreateOpportunityDefaults(t *testing.T) {
	db, svc := setupOpportunityService(t)
	ctx := testutil.ManagerContext()
	c := testutil.CreateTestClient(t, db, "Acme Mining")

	opp, err := svc.Create(ctx, &domain.CreateOpportunityRequest{
		ClientID: c.ID,
		Title:    "New shaft project",
		Currency: "ZAR",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StageLead, opp.Stage)
	assert.Equal(t, 10, opp.Probability)
	assert.Equal(t, auth.MustFromContext(ctx).UserID, opp.OwnerID)

	// Creation writes no history entry; only transitions do.
	history, err := svc.GetStageHistory(ctx, opp.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCreateOpportunityExplicitProbability(t *testing.T) {
	db, svc := setupOpportunityService(t)
	ctx := testutil.ManagerContext()
	c := testutil.CreateTestClient(t, db, "Acme Mining")

	p := 60
	opp, err := svc.Create(ctx, &domain.CreateOpportunityRequest{
		ClientID:    c.ID,
		Title:       "Negotiated deal",
		Currency:    "ZAR",
		Stage:       domain.StageQualified,
		Probability: &p,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StageQualified, opp.Stage)
	assert.Equal(t, 60, opp.Probability)
}

func TestSetStageAppendsHistory(t *testing.T) {
	db, svc := setupOpportunityService(t)
	ctx := testutil.ManagerContext()
	c := testutil.CreateTestClient(t, db, "Acme Mining")

	opp, err := svc.Create(ctx, &domain.CreateOpportunityRequest{
		ClientID: c.ID,
		Title:    "Pipeline walk",
		Currency: "ZAR",
	})
	require.NoError(t, err)

	steps := []domain.OpportunityStage{
		domain.StageQualified,
		domain.StageNegotiation,
		domain.StageClosedLost,
	}
	for _, stage := range steps {
		_, err := svc.SetStage(ctx, opp.ID, stage, "")
		require.NoError(t, err)
	}

	// Three calls, exactly three entries, oldest first with linked from/to.
	history, err := svc.GetStageHistory(ctx, opp.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.StageLead, *history[0].FromStage)
	assert.Equal(t, domain.StageQualified, history[0].ToStage)
	assert.Equal(t, domain.StageNegotiation, history[1].ToStage)
	assert.Equal(t, domain.StageClosedLost, history[2].ToStage)
}

func TestSetStageDefaultsProbability(t *testing.T) {
	db, svc := setupOpportunityService(t)
	ctx := testutil.ManagerContext()
	c := testutil.CreateTestClient(t, db, "Acme Mining")

	opp, err := svc.Create(ctx, &domain.CreateOpportunityRequest{
		ClientID: c.ID,
		Title:    "Probability walk",
		Currency: "ZAR",
	})
	require.NoError(t, err)

	moved, err := svc.SetStage(ctx, opp.ID, domain.StageNegotiation, "moving along")
	require.NoError(t, err)
	assert.Equal(t, 75, moved.Probability)

	won, err := svc.SetStage(ctx, opp.ID, domain.StageClosedWon, "")
	require.NoError(t, err)
	assert.Equal(t, 100, won.Probability)
}

func TestSetStageAllowsReopening(t *testing.T) {
	db, svc := setupOpportunityService(t)
	ctx := testutil.ManagerContext()
	c := testutil.CreateTestClient(t, db, "Acme Mining")
	opp := testutil.CreateTestOpportunity(t, db, c.ID, uuid.New())

	_, err := svc.SetStage(ctx, opp.ID, domain.StageClosedLost, "budget cut")
	require.NoError(t, err)

	reopened, err := svc.SetStage(ctx, opp.ID, domain.StageQualified, "budget restored")
	require.NoError(t, err)
	assert.Equal(t, domain.StageQualified, reopened.Stage)
}

func TestSetStageRejectsUnknownStage(t *testing.T) {
	db, svc := setupOpportunityService(t)
	ctx := testutil.ManagerContext()
	c := testutil.CreateTestClient(t, db, "Acme Mining")
	opp := testutil.CreateTestOpportunity(t, db, c.ID, uuid.New())

	_, err := svc.SetStage(ctx, opp.ID, domain.OpportunityStage("bogus"), "")
	assert.ErrorIs(t, err, service.ErrInvalidStage)
}

func TestAssignOpportunity(t *testing.T) {
	db, svc := setupOpportunityService(t)
	managerCtx := testutil.ManagerContext()
	repCtx := testutil.RepContext()
	c := testutil.CreateTestClient(t, db, "Acme Mining")
	opp := testutil.CreateTestOpportunity(t, db, c.ID, uuid.New())

	_, err := svc.Assign(repCtx, opp.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = svc.Assign(managerCtx, opp.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	target := createTestUser(t, db, "Thandi Nkosi")
	assigned, err := svc.Assign(managerCtx, opp.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, assigned.OwnerID)
	assert.Equal(t, "Thandi Nkosi", assigned.OwnerName)
}

func TestDeleteOpportunityGated(t *testing.T) {
	db, svc := setupOpportunityService(t)
	managerCtx := testutil.ManagerContext()
	repCtx := testutil.RepContext()
	c := testutil.CreateTestClient(t, db, "Acme Mining")
	opp := testutil.CreateTestOpportunity(t, db, c.ID, uuid.New())

	err := svc.Delete(repCtx, opp.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	require.NoError(t, svc.Delete(managerCtx, opp.ID))
	_, err = svc.GetByID(managerCtx, opp.ID)
	assert.ErrorIs(t, err, service.ErrOpportunityNotFound)
}

func TestListScopedToOwner(t *testing.T) {
	db, svc := setupOpportunityService(t)
	c := testutil.CreateTestClient(t, db, "Acme Mining")

	mine := uuid.New()
	other := uuid.New()
	owned := testutil.CreateTestOpportunity(t, db, c.ID, mine)
	testutil.CreateTestOpportunity(t, db, c.ID, other)

	// Unscoped callers see everything.
	all, err := svc.List(testutil.ManagerContext(), 1, 20, &repository.OpportunityFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	// A sales-rep-only caller carries the owner filter on the context.
	scopedCtx := auth.WithOwnerFilter(testutil.ContextForUser(mine, domain.RoleSalesRep), mine)
	scoped, err := svc.List(scopedCtx, 1, 20, &repository.OpportunityFilters{})
	require.NoError(t, err)
	require.Len(t, scoped.Data, 1)
	assert.Equal(t, owned.ID, scoped.Data[0].ID)
}
