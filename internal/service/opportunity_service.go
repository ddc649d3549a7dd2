package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/auth"
	"github.com/jason-govender/salesflow-api/internal/authz"
	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/mapper"
	"github.com/jason-govender/salesflow-api/internal/repository"
)

// OpportunityService tracks sales deals through the pipeline stages. Stage
// transitions are permissive: any stage may move to any other stage,
// including backward out of a closed state. Every transition appends an
// immutable history entry.
type OpportunityService struct {
	opportunityRepo *repository.OpportunityRepository
	historyRepo     *repository.StageHistoryRepository
	userRepo        *repository.UserRepository
	activityRepo    *repository.ActivityRepository
	logger          *zap.Logger
}

func NewOpportunityService(
	opportunityRepo *repository.OpportunityRepository,
	historyRepo *repository.StageHistoryRepository,
	userRepo *repository.UserRepository,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *OpportunityService {
	return &OpportunityService{
		opportunityRepo: opportunityRepo,
		historyRepo:     historyRepo,
		userRepo:        userRepo,
		activityRepo:    activityRepo,
		logger:          logger,
	}
}

// Create creates an opportunity. The stage defaults to lead and the owner to
// the caller; probability defaults per stage when not supplied.
func (s *OpportunityService) Create(ctx context.Context, req *domain.CreateOpportunityRequest) (*domain.OpportunityDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	stage := req.Stage
	if stage == "" {
		stage = domain.StageLead
	}

	probability := domain.DefaultStageProbability(stage)
	if req.Probability != nil {
		probability = *req.Probability
	}

	ownerID := userCtx.UserID
	ownerName := userCtx.DisplayName
	if req.OwnerID != nil {
		user, err := s.userRepo.GetByID(ctx, *req.OwnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to look up owner: %w", err)
		}
		ownerID = user.ID
		ownerName = user.DisplayName
	}

	opp := &domain.Opportunity{
		ClientID:       req.ClientID,
		Title:          req.Title,
		Description:    req.Description,
		ContactID:      req.ContactID,
		EstimatedValue: req.EstimatedValue,
		Currency:       req.Currency,
		Stage:          stage,
		Source:         req.Source,
		Probability:    probability,
		OwnerID:        ownerID,
		OwnerName:      ownerName,
	}
	if req.ExpectedCloseDate != nil {
		closeDate, err := time.Parse(mapper.DateFormat, *req.ExpectedCloseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid expectedCloseDate", ErrInvalidInput)
		}
		opp.ExpectedCloseDate = &closeDate
	}

	if err := s.opportunityRepo.Create(ctx, opp); err != nil {
		return nil, fmt.Errorf("failed to create opportunity: %w", err)
	}

	created, err := s.opportunityRepo.GetByID(ctx, opp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload opportunity: %w", err)
	}

	s.logger.Info("opportunity created",
		zap.String("opportunity_id", created.ID.String()),
		zap.String("stage", string(created.Stage)),
		zap.String("owner", created.OwnerName))

	dto := mapper.ToOpportunityDTO(created)
	return &dto, nil
}

// GetByID returns a single opportunity
func (s *OpportunityService) GetByID(ctx context.Context, id uuid.UUID) (*domain.OpportunityDTO, error) {
	opp, err := s.opportunityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}
	dto := mapper.ToOpportunityDTO(opp)
	return &dto, nil
}

// List returns opportunities matching the filters with pagination. Callers
// whose only role is sales rep are scoped to their own records via the owner
// filter carried on the context.
func (s *OpportunityService) List(ctx context.Context, page, pageSize int, filters *repository.OpportunityFilters) (*domain.PaginatedResponse[domain.OpportunityDTO], error) {
	page, pageSize = clampPage(page, pageSize)

	opps, total, err := s.opportunityRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}

	dtos := make([]domain.OpportunityDTO, len(opps))
	for i := range opps {
		dtos[i] = mapper.ToOpportunityDTO(&opps[i])
	}

	return &domain.PaginatedResponse[domain.OpportunityDTO]{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update edits opportunity fields. Stage and owner have dedicated operations.
func (s *OpportunityService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateOpportunityRequest) (*domain.OpportunityDTO, error) {
	opp, err := s.opportunityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}

	if req.Title != nil {
		opp.Title = *req.Title
	}
	if req.Description != nil {
		opp.Description = *req.Description
	}
	if req.ContactID != nil {
		opp.ContactID = req.ContactID
	}
	if req.EstimatedValue != nil {
		opp.EstimatedValue = *req.EstimatedValue
	}
	if req.Currency != nil {
		opp.Currency = *req.Currency
	}
	if req.Source != nil {
		opp.Source = *req.Source
	}
	if req.Probability != nil {
		opp.Probability = *req.Probability
	}
	if req.ExpectedCloseDate != nil {
		closeDate, err := time.Parse(mapper.DateFormat, *req.ExpectedCloseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid expectedCloseDate", ErrInvalidInput)
		}
		opp.ExpectedCloseDate = &closeDate
	}

	if err := s.opportunityRepo.Update(ctx, opp); err != nil {
		return nil, fmt.Errorf("failed to update opportunity: %w", err)
	}

	updated, err := s.opportunityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload opportunity: %w", err)
	}

	dto := mapper.ToOpportunityDTO(updated)
	return &dto, nil
}

// SetStage moves the opportunity to a new stage and appends a history entry
// with the optional reason. Backward transitions are allowed, including
// reopening a closed opportunity.
func (s *OpportunityService) SetStage(ctx context.Context, id uuid.UUID, stage domain.OpportunityStage, reason string) (*domain.OpportunityDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if !stage.IsValid() {
		return nil, ErrInvalidStage
	}

	opp, err := s.opportunityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}

	oldStage := opp.Stage
	probability := domain.DefaultStageProbability(stage)

	if err := s.opportunityRepo.UpdateStage(ctx, id, stage, probability); err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}

	if err := s.historyRepo.RecordTransition(ctx, id, &oldStage, stage, reason, userCtx.UserID, userCtx.DisplayName); err != nil {
		return nil, fmt.Errorf("failed to record stage transition: %w", err)
	}

	s.logActivity(ctx, domain.ActivityStageChanged,
		fmt.Sprintf("Opportunity '%s' moved %s -> %s", opp.Title, oldStage, stage), &opp.ID)

	updated, err := s.opportunityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload opportunity: %w", err)
	}

	dto := mapper.ToOpportunityDTO(updated)
	return &dto, nil
}

// Assign reassigns the opportunity to another sales rep. The target must be
// an active directory user; the caller needs an authorizing role.
func (s *OpportunityService) Assign(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.OpportunityDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !authz.CanPerform(authz.ActionAssignOpportunity, userCtx.Roles) {
		return nil, ErrPermissionDenied
	}

	opp, err := s.opportunityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}

	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.opportunityRepo.UpdateOwner(ctx, id, target.ID, target.DisplayName); err != nil {
		return nil, fmt.Errorf("failed to reassign opportunity: %w", err)
	}

	s.logActivity(ctx, domain.ActivityOwnerAssigned,
		fmt.Sprintf("Opportunity '%s' assigned to %s", opp.Title, target.DisplayName), &opp.ID)

	updated, err := s.opportunityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload opportunity: %w", err)
	}

	dto := mapper.ToOpportunityDTO(updated)
	return &dto, nil
}

// Delete removes an opportunity. Requires an authorizing role; the deletion
// is irreversible.
func (s *OpportunityService) Delete(ctx context.Context, id uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !authz.CanPerform(authz.ActionDeleteOpportunity, userCtx.Roles) {
		return ErrPermissionDenied
	}

	if _, err := s.opportunityRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOpportunityNotFound
		}
		return fmt.Errorf("failed to get opportunity: %w", err)
	}

	if err := s.opportunityRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete opportunity: %w", err)
	}

	return nil
}

// GetStageHistory returns the append-only stage history, oldest first
func (s *OpportunityService) GetStageHistory(ctx context.Context, id uuid.UUID) ([]domain.StageHistoryDTO, error) {
	if _, err := s.opportunityRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}

	history, err := s.historyRepo.ListByOpportunity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage history: %w", err)
	}

	return mapper.ToStageHistoryDTOs(history), nil
}

func (s *OpportunityService) logActivity(ctx context.Context, activityType domain.ActivityType, description string, opportunityID *uuid.UUID) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return
	}
	activity := &domain.Activity{
		Type:          activityType,
		Description:   description,
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
