package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/repository"
	"github.com/jason-govender/salesflow-api/internal/service"
	"github.com/jason-govender/salesflow-api/internal/testutil"
)

func setupProposalService(t *testing.T) (*gorm.DB, *service.ProposalService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewProposalService(
		repository.NewProposalRepository(db),
		repository.NewProposalItemRepository(db),
		repository.NewOpportunityRepository(db),
		repository.NewActivityRepository(db),
		repository.NewNotificationRepository(db),
		zap.NewNop(),
	)
	return db, svc
}

// createDraftProposal seeds a client and opportunity and creates a draft
// proposal against them. Returns the draft and the opportunity owner's id.
func createDraftProposal(t *testing.T, ctx context.Context, db *gorm.DB, svc *service.ProposalService) (*domain.ProposalDTO, uuid.UUID) {
	t.Helper()
	ownerID := uuid.New()
	c := testutil.CreateTestClient(t, db, "Acme Mining")
	opp := testutil.CreateTestOpportunity(t, db, c.ID, ownerID)

	draft, err := svc.Create(ctx, &domain.CreateProposalRequest{
		OpportunityID: opp.ID,
		ClientID:      c.ID,
		Title:         "Equipment supply",
		Currency:      "ZAR",
		ValidUntil:    "2027-01-31",
	})
	require.NoError(t, err)
	require.Equal(t, domain.ProposalStatusDraft, draft.Status)
	return draft, ownerID
}

func TestProposalLifecycle(t *testing.T) {
	db, svc := setupProposalService(t)
	ctx := testutil.ManagerContext()

	draft, ownerID := createDraftProposal(t, ctx, db, svc)

	// One item at 5000 with 15% tax prices the proposal at 5750.
	withItem, err := svc.AddItem(ctx, draft.ID, &domain.AddProposalItemRequest{
		Name:           "Drilling rig hire",
		Quantity:       1,
		UnitPrice:      5000,
		TaxRatePercent: 15,
	})
	require.NoError(t, err)
	require.Len(t, withItem.Items, 1)
	assert.InDelta(t, 5750, withItem.Items[0].LineTotal, 0.001)
	assert.InDelta(t, 5750, withItem.Subtotal, 0.001)
	assert.InDelta(t, 5750, withItem.Total, 0.001)

	submitted, err := svc.Submit(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusSubmitted, submitted.Status)

	rejected, err := svc.Reject(ctx, draft.ID, "Price too high")
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusRejected, rejected.Status)
	assert.Equal(t, "Price too high", rejected.RejectionReason)

	// The rejected proposal is immutable.
	_, err = svc.AddItem(ctx, draft.ID, &domain.AddProposalItemRequest{
		Name:      "Extra",
		Quantity:  1,
		UnitPrice: 100,
	})
	assert.ErrorIs(t, err, service.ErrProposalNotDraft)

	// The opportunity owner was notified of the outcome.
	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("recipient_id = ? AND type = ?", ownerID, domain.NotificationProposalRejected).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestItemMutationsRecomputeTotals(t *testing.T) {
	db, svc := setupProposalService(t)
	ctx := testutil.ManagerContext()

	draft, _ := createDraftProposal(t, ctx, db, svc)

	// 2 x 1000 with 10% discount and 15% tax: 2000 * 0.9 * 1.15 = 2070
	first, err := svc.AddItem(ctx, draft.ID, &domain.AddProposalItemRequest{
		Name:            "Steel beams",
		Quantity:        2,
		UnitPrice:       1000,
		DiscountPercent: 10,
		TaxRatePercent:  15,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2070, first.Total, 0.001)

	second, err := svc.AddItem(ctx, draft.ID, &domain.AddProposalItemRequest{
		Name:      "Delivery",
		Quantity:  1,
		UnitPrice: 500,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2570, second.Subtotal, 0.001)
	assert.InDelta(t, 2570, second.Total, 0.001)

	deliveryID := second.Items[1].ID
	qty := 3.0
	updated, err := svc.UpdateItem(ctx, draft.ID, deliveryID, &domain.UpdateProposalItemRequest{
		Quantity: &qty,
	})
	require.NoError(t, err)
	assert.InDelta(t, 3570, updated.Total, 0.001)

	beamsID := updated.Items[0].ID
	trimmed, err := svc.RemoveItem(ctx, draft.ID, beamsID)
	require.NoError(t, err)
	require.Len(t, trimmed.Items, 1)
	assert.InDelta(t, 1500, trimmed.Subtotal, 0.001)
	assert.InDelta(t, 1500, trimmed.Total, 0.001)
}

func TestRejectRequiresReason(t *testing.T) {
	db, svc := setupProposalService(t)
	ctx := testutil.ManagerContext()

	draft, _ := createDraftProposal(t, ctx, db, svc)
	_, err := svc.Submit(ctx, draft.ID)
	require.NoError(t, err)

	_, err = svc.Reject(ctx, draft.ID, "   ")
	assert.ErrorIs(t, err, service.ErrRejectionReasonRequired)

	// Status is untouched by the failed transition.
	current, err := svc.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusSubmitted, current.Status)
}

func TestApproveRejectPermissions(t *testing.T) {
	db, svc := setupProposalService(t)
	managerCtx := testutil.ManagerContext()
	repCtx := testutil.RepContext()

	draft, ownerID := createDraftProposal(t, managerCtx, db, svc)
	_, err := svc.Submit(managerCtx, draft.ID)
	require.NoError(t, err)

	_, err = svc.Approve(repCtx, draft.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = svc.Reject(repCtx, draft.ID, "No budget")
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	approved, err := svc.Approve(managerCtx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusApproved, approved.Status)

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("recipient_id = ? AND type = ?", ownerID, domain.NotificationProposalApproved).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestApproveRequiresSubmittedStatus(t *testing.T) {
	db, svc := setupProposalService(t)
	ctx := testutil.ManagerContext()

	draft, _ := createDraftProposal(t, ctx, db, svc)

	_, err := svc.Approve(ctx, draft.ID)
	assert.ErrorIs(t, err, service.ErrProposalNotSubmitted)

	_, err = svc.Submit(ctx, draft.ID)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, draft.ID)
	require.NoError(t, err)

	// Approved is terminal.
	_, err = svc.Approve(ctx, draft.ID)
	assert.ErrorIs(t, err, service.ErrProposalNotSubmitted)
	_, err = svc.Submit(ctx, draft.ID)
	assert.ErrorIs(t, err, service.ErrProposalNotDraft)
}

func TestUpdateDraftOnly(t *testing.T) {
	db, svc := setupProposalService(t)
	ctx := testutil.ManagerContext()

	draft, _ := createDraftProposal(t, ctx, db, svc)

	title := "Revised equipment supply"
	updated, err := svc.Update(ctx, draft.ID, &domain.UpdateProposalRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	_, err = svc.Submit(ctx, draft.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, draft.ID, &domain.UpdateProposalRequest{Title: &title})
	assert.ErrorIs(t, err, service.ErrProposalNotDraft)
}

func TestDeleteRules(t *testing.T) {
	db, svc := setupProposalService(t)
	managerCtx := testutil.ManagerContext()
	repCtx := testutil.RepContext()

	draft, _ := createDraftProposal(t, managerCtx, db, svc)

	err := svc.Delete(repCtx, draft.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = svc.Submit(managerCtx, draft.ID)
	require.NoError(t, err)
	err = svc.Delete(managerCtx, draft.ID)
	assert.ErrorIs(t, err, service.ErrProposalNotDraft)

	second, _ := createDraftProposal(t, managerCtx, db, svc)
	require.NoError(t, svc.Delete(managerCtx, second.ID))
	_, err = svc.GetByID(managerCtx, second.ID)
	assert.ErrorIs(t, err, service.ErrProposalNotFound)
}

func TestCreateValidatesOpportunity(t *testing.T) {
	db, svc := setupProposalService(t)
	ctx := testutil.ManagerContext()

	c := testutil.CreateTestClient(t, db, "Acme Mining")
	opp := testutil.CreateTestOpportunity(t, db, c.ID, uuid.New())

	_, err := svc.Create(ctx, &domain.CreateProposalRequest{
		OpportunityID: uuid.New(),
		ClientID:      c.ID,
		Title:         "Orphan",
		Currency:      "ZAR",
		ValidUntil:    "2027-01-31",
	})
	assert.ErrorIs(t, err, service.ErrOpportunityNotFound)

	other := testutil.CreateTestClient(t, db, "Other Corp")
	_, err = svc.Create(ctx, &domain.CreateProposalRequest{
		OpportunityID: opp.ID,
		ClientID:      other.ID,
		Title:         "Mismatch",
		Currency:      "ZAR",
		ValidUntil:    "2027-01-31",
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestListFiltersByStatus(t *testing.T) {
	db, svc := setupProposalService(t)
	ctx := testutil.ManagerContext()

	draft, _ := createDraftProposal(t, ctx, db, svc)
	second, _ := createDraftProposal(t, ctx, db, svc)
	_, err := svc.Submit(ctx, second.ID)
	require.NoError(t, err)

	status := domain.ProposalStatusDraft
	result, err := svc.List(ctx, 1, 20, &repository.ProposalFilters{Status: &status})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, draft.ID, result.Data[0].ID)
	assert.Equal(t, int64(1), result.Total)
}
