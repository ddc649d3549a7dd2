package service

// Proposal lifecycle transitions: draft -> submitted -> approved/rejected.
// Transitions are one-directional; approved and rejected are terminal.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/auth"
	"github.com/jason-govender/salesflow-api/internal/authz"
	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/mapper"
)

// Submit transitions a draft proposal to submitted. Any authenticated caller
// with access to the draft may submit it; there is no minimum item count.
func (s *ProposalService) Submit(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	if proposal.Status != domain.ProposalStatusDraft {
		return nil, ErrProposalNotDraft
	}

	oldStatus := proposal.Status
	proposal.Status = domain.ProposalStatusSubmitted

	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to update proposal status: %w", err)
	}

	updated, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload proposal: %w", err)
	}

	s.logActivity(ctx, domain.ActivityProposalSubmitted,
		fmt.Sprintf("Proposal '%s' submitted (%s -> %s)", updated.Title, oldStatus, updated.Status),
		&updated.ID, &updated.OpportunityID)

	dto := mapper.ToProposalDTO(updated)
	return &dto, nil
}

// Approve transitions a submitted proposal to approved. Requires an
// authorizing role. Approved is terminal; there is no path back.
func (s *ProposalService) Approve(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !authz.CanPerform(authz.ActionApproveProposal, userCtx.Roles) {
		return nil, ErrPermissionDenied
	}

	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	if proposal.Status != domain.ProposalStatusSubmitted {
		return nil, ErrProposalNotSubmitted
	}

	oldStatus := proposal.Status
	proposal.Status = domain.ProposalStatusApproved

	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to update proposal status: %w", err)
	}

	updated, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload proposal: %w", err)
	}

	s.logActivity(ctx, domain.ActivityProposalApproved,
		fmt.Sprintf("Proposal '%s' approved (%s -> %s)", updated.Title, oldStatus, updated.Status),
		&updated.ID, &updated.OpportunityID)
	s.notifyOwner(ctx, updated, domain.NotificationProposalApproved,
		"Proposal approved",
		fmt.Sprintf("Proposal '%s' was approved by %s", updated.Title, userCtx.DisplayName))

	dto := mapper.ToProposalDTO(updated)
	return &dto, nil
}

// Reject transitions a submitted proposal to rejected. Requires an
// authorizing role and a non-empty reason; a whitespace-only reason is
// rejected before any state changes.
func (s *ProposalService) Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.ProposalDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !authz.CanPerform(authz.ActionRejectProposal, userCtx.Roles) {
		return nil, ErrPermissionDenied
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectionReasonRequired
	}

	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	if proposal.Status != domain.ProposalStatusSubmitted {
		return nil, ErrProposalNotSubmitted
	}

	oldStatus := proposal.Status
	proposal.Status = domain.ProposalStatusRejected
	proposal.RejectionReason = reason

	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to update proposal status: %w", err)
	}

	updated, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload proposal: %w", err)
	}

	s.logActivity(ctx, domain.ActivityProposalRejected,
		fmt.Sprintf("Proposal '%s' rejected (%s -> %s): %s", updated.Title, oldStatus, updated.Status, reason),
		&updated.ID, &updated.OpportunityID)
	s.notifyOwner(ctx, updated, domain.NotificationProposalRejected,
		"Proposal rejected",
		fmt.Sprintf("Proposal '%s' was rejected: %s", updated.Title, reason))

	dto := mapper.ToProposalDTO(updated)
	return &dto, nil
}

// notifyOwner delivers a notification to the owner of the proposal's
// opportunity. Failures are logged, never surfaced to the caller.
func (s *ProposalService) notifyOwner(ctx context.Context, proposal *domain.Proposal, notifType domain.NotificationType, title, message string) {
	opp, err := s.opportunityRepo.GetByID(ctx, proposal.OpportunityID)
	if err != nil {
		s.logger.Warn("failed to load opportunity for notification", zap.Error(err))
		return
	}
	notification := &domain.Notification{
		RecipientID:   opp.OwnerID,
		Type:          notifType,
		Title:         title,
		Message:       message,
		ProposalID:    &proposal.ID,
		OpportunityID: &proposal.OpportunityID,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to create notification",
			zap.String("type", string(notifType)),
			zap.Error(err))
	}
}
