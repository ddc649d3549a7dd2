package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/auth"
	"github.com/jason-govender/salesflow-api/internal/authz"
	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/mapper"
	"github.com/jason-govender/salesflow-api/internal/pricing"
	"github.com/jason-govender/salesflow-api/internal/repository"
)

// ProposalService owns the proposal lifecycle: creation, draft mutations,
// submit/approve/reject transitions and deletion. Totals are always
// recomputed server-side from the line items; the stored values are never
// trusted over a recomputation.
type ProposalService struct {
	proposalRepo     *repository.ProposalRepository
	itemRepo         *repository.ProposalItemRepository
	opportunityRepo  *repository.OpportunityRepository
	activityRepo     *repository.ActivityRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewProposalService(
	proposalRepo *repository.ProposalRepository,
	itemRepo *repository.ProposalItemRepository,
	opportunityRepo *repository.OpportunityRepository,
	activityRepo *repository.ActivityRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *ProposalService {
	return &ProposalService{
		proposalRepo:     proposalRepo,
		itemRepo:         itemRepo,
		opportunityRepo:  opportunityRepo,
		activityRepo:     activityRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Create creates a proposal in draft status with an empty item collection
func (s *ProposalService) Create(ctx context.Context, req *domain.CreateProposalRequest) (*domain.ProposalDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	opp, err := s.opportunityRepo.GetByID(ctx, req.OpportunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}
	if opp.ClientID != req.ClientID {
		return nil, fmt.Errorf("%w: clientId does not match the opportunity's client", ErrInvalidInput)
	}

	validUntil, err := time.Parse(mapper.DateFormat, req.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid validUntil date", ErrInvalidInput)
	}

	proposal := &domain.Proposal{
		OpportunityID: req.OpportunityID,
		ClientID:      req.ClientID,
		Title:         req.Title,
		Description:   req.Description,
		Currency:      req.Currency,
		ValidUntil:    validUntil,
		Status:        domain.ProposalStatusDraft,
	}

	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	s.logActivity(ctx, domain.ActivityProposalCreated,
		fmt.Sprintf("Proposal '%s' created in draft", proposal.Title),
		&proposal.ID, &proposal.OpportunityID)

	created, err := s.proposalRepo.GetByID(ctx, proposal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload proposal: %w", err)
	}

	s.logger.Info("proposal created",
		zap.String("proposal_id", proposal.ID.String()),
		zap.String("opportunity_id", proposal.OpportunityID.String()),
		zap.String("created_by", userCtx.DisplayName))

	dto := mapper.ToProposalDTO(created)
	return &dto, nil
}

// GetByID returns a proposal with its items
func (s *ProposalService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	dto := mapper.ToProposalDTO(proposal)
	return &dto, nil
}

// List returns proposals matching the filters with pagination
func (s *ProposalService) List(ctx context.Context, page, pageSize int, filters *repository.ProposalFilters) (*domain.PaginatedResponse[domain.ProposalDTO], error) {
	page, pageSize = clampPage(page, pageSize)

	proposals, total, err := s.proposalRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	dtos := make([]domain.ProposalDTO, len(proposals))
	for i := range proposals {
		dtos[i] = mapper.ToProposalDTO(&proposals[i])
	}

	return &domain.PaginatedResponse[domain.ProposalDTO]{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update edits title, description, currency or validUntil. Permitted only in
// draft status.
func (s *ProposalService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProposalRequest) (*domain.ProposalDTO, error) {
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

	if req.Title != nil {
		proposal.Title = *req.Title
	}
	if req.Description != nil {
		proposal.Description = *req.Description
	}
	if req.Currency != nil {
		proposal.Currency = *req.Currency
	}
	if req.ValidUntil != nil {
		validUntil, err := time.Parse(mapper.DateFormat, *req.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid validUntil date", ErrInvalidInput)
		}
		proposal.ValidUntil = validUntil
	}

	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to update proposal: %w", err)
	}

	s.logActivity(ctx, domain.ActivityProposalUpdated,
		fmt.Sprintf("Proposal '%s' updated", proposal.Title),
		&proposal.ID, &proposal.OpportunityID)

	updated, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload proposal: %w", err)
	}

	dto := mapper.ToProposalDTO(updated)
	return &dto, nil
}

// Delete removes a draft proposal. Non-draft proposals cannot be deleted, and
// the caller must hold an authorizing role for destructive actions.
func (s *ProposalService) Delete(ctx context.Context, id uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !authz.CanPerform(authz.ActionDeleteProposal, userCtx.Roles) {
		return ErrPermissionDenied
	}

	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProposalNotFound
		}
		return fmt.Errorf("failed to get proposal: %w", err)
	}

	if proposal.Status != domain.ProposalStatusDraft {
		return ErrProposalNotDraft
	}

	if err := s.proposalRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete proposal: %w", err)
	}

	s.logActivity(ctx, domain.ActivityProposalDeleted,
		fmt.Sprintf("Proposal '%s' deleted", proposal.Title),
		nil, &proposal.OpportunityID)

	return nil
}

// recomputeTotals re-derives line totals and the proposal subtotal/total from
// the stored items and persists them. Total equals subtotal: no
// proposal-level adjustment exists.
func (s *ProposalService) recomputeTotals(ctx context.Context, proposalID uuid.UUID) error {
	items, err := s.itemRepo.ListByProposal(ctx, proposalID)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	lineTotals := make([]float64, len(items))
	for i := range items {
		lineTotals[i] = pricing.LineTotal(items[i].Quantity, items[i].UnitPrice, items[i].DiscountPercent, items[i].TaxRatePercent)
	}
	subtotal := pricing.Subtotal(lineTotals)

	return s.proposalRepo.UpdateTotals(ctx, proposalID, subtotal, subtotal)
}

func (s *ProposalService) logActivity(ctx context.Context, activityType domain.ActivityType, description string, proposalID, opportunityID *uuid.UUID) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return
	}
	activity := &domain.Activity{
		Type:          activityType,
		Description:   description,
		ProposalID:    proposalID,
		OpportunityID: opportunityID,
		UserID:        userCtx.UserID,
		UserName:      userCtx.DisplayName,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("activity_type", string(activityType)),
			zap.Error(err))
	}
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
