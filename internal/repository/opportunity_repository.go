package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

// OpportunityFilters contains filter options for listing opportunities
type OpportunityFilters struct {
	ClientID   *uuid.UUID
	Stage      *domain.OpportunityStage
	OwnerID    *uuid.UUID
	SearchTerm *string
}

type OpportunityRepository struct {
	db *gorm.DB
}

func NewOpportunityRepository(db *gorm.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

func (r *OpportunityRepository) Create(ctx context.Context, opp *domain.Opportunity) error {
	// Omit associations to avoid gorm validating related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(opp).Error
}

func (r *OpportunityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Opportunity, error) {
	var opp domain.Opportunity
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id = ?", id).
		First(&opp).Error
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

func (r *OpportunityRepository) Update(ctx context.Context, opp *domain.Opportunity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(opp).Error
}

func (r *OpportunityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Opportunity{}, "id = ?", id).Error
}

func (r *OpportunityRepository) List(ctx context.Context, page, pageSize int, filters *OpportunityFilters) ([]domain.Opportunity, int64, error) {
	var opps []domain.Opportunity
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Opportunity{}).Preload("Client")

	// Sales-rep owner scoping from context
	query = ApplyOwnerFilter(ctx, query)
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&opps).Error
	return opps, total, err
}

// UpdateStage updates only the stage and probability fields; stage history is
// recorded separately by the service.
func (r *OpportunityRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage domain.OpportunityStage, probability int) error {
	updates := map[string]interface{}{
		"stage":       stage,
		"probability": probability,
		"updated_at":  time.Now(),
	}
	return r.db.WithContext(ctx).Model(&domain.Opportunity{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateOwner reassigns the opportunity to a different sales rep
func (r *OpportunityRepository) UpdateOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, ownerName string) error {
	updates := map[string]interface{}{
		"owner_id":   ownerID,
		"owner_name": ownerName,
		"updated_at": time.Now(),
	}
	return r.db.WithContext(ctx).Model(&domain.Opportunity{}).Where("id = ?", id).Updates(updates).Error
}

func (r *OpportunityRepository) applyFilters(query *gorm.DB, filters *OpportunityFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.ClientID != nil {
		query = query.Where("client_id = ?", *filters.ClientID)
	}

	if filters.Stage != nil {
		query = query.Where("stage = ?", *filters.Stage)
	}

	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}

	if filters.SearchTerm != nil && *filters.SearchTerm != "" {
		pattern := "%" + strings.ToLower(*filters.SearchTerm) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(owner_name) LIKE ?", pattern, pattern)
	}

	return query
}
