package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/testutil"
)

func TestSweepExpiredNotifiesOnce(t *testing.T) {
	db, svc := setupProposalService(t)
	ctx := testutil.ManagerContext()

	draft, ownerID := createDraftProposal(t, ctx, db, svc)
	_, err := svc.Submit(ctx, draft.ID)
	require.NoError(t, err)

	// Push the validity date into the past.
	past := time.Now().UTC().AddDate(0, 0, -3)
	require.NoError(t, db.Model(&domain.Proposal{}).
		Where("id = ?", draft.ID).
		Update("valid_until", past).Error)

	notified, err := svc.SweepExpired(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, notified)

	// A second sweep is a no-op.
	notified, err = svc.SweepExpired(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0, notified)

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("recipient_id = ? AND type = ?", ownerID, domain.NotificationProposalExpired).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSweepLeavesStatusUntouched(t *testing.T) {
	db, svc := setupProposalService(t)
	ctx := testutil.ManagerContext()

	draft, _ := createDraftProposal(t, ctx, db, svc)
	_, err := svc.Submit(ctx, draft.ID)
	require.NoError(t, err)

	past := time.Now().UTC().AddDate(0, 0, -1)
	require.NoError(t, db.Model(&domain.Proposal{}).
		Where("id = ?", draft.ID).
		Update("valid_until", past).Error)

	_, err = svc.SweepExpired(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	current, err := svc.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusSubmitted, current.Status)

	// An expired submission can still be decided.
	approved, err := svc.Approve(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusApproved, approved.Status)
}

func TestSweepIgnoresDrafts(t *testing.T) {
	db, svc := setupProposalService(t)
	ctx := testutil.ManagerContext()

	draft, _ := createDraftProposal(t, ctx, db, svc)

	past := time.Now().UTC().AddDate(0, 0, -1)
	require.NoError(t, db.Model(&domain.Proposal{}).
		Where("id = ?", draft.ID).
		Update("valid_until", past).Error)

	notified, err := svc.SweepExpired(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0, notified)
}
