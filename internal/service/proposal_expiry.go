package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

// SweepExpired notifies opportunity owners of submitted proposals whose
// validUntil has passed. The proposal status itself is untouched; an expired
// submission can still be approved or rejected. A dedupe check keeps repeat
// sweeps from notifying twice, so the sweep is safe to run on every tick.
func (s *ProposalService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.proposalRepo.ListExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired proposals: %w", err)
	}

	notified := 0
	for i := range expired {
		proposal := &expired[i]

		exists, err := s.notificationRepo.ExistsForProposal(ctx, proposal.ID, domain.NotificationProposalExpired)
		if err != nil {
			return notified, fmt.Errorf("failed to check existing notification: %w", err)
		}
		if exists {
			continue
		}

		opp, err := s.opportunityRepo.GetByID(ctx, proposal.OpportunityID)
		if err != nil {
			s.logger.Warn("failed to load opportunity for expiry notification",
				zap.String("proposal_id", proposal.ID.String()),
				zap.Error(err))
			continue
		}

		notification := &domain.Notification{
			RecipientID:   opp.OwnerID,
			Type:          domain.NotificationProposalExpired,
			Title:         "Proposal expired",
			Message:       fmt.Sprintf("Proposal '%s' passed its validity date on %s", proposal.Title, proposal.ValidUntil.Format("2006-01-02")),
			ProposalID:    &proposal.ID,
			OpportunityID: &proposal.OpportunityID,
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			return notified, fmt.Errorf("failed to create expiry notification: %w", err)
		}
		notified++
	}

	return notified, nil
}
