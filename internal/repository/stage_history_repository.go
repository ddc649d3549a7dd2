package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

// StageHistoryRepository persists opportunity stage transitions. The table is
// append-only: there are deliberately no update or delete methods.
type StageHistoryRepository struct {
	db *gorm.DB
}

func NewStageHistoryRepository(db *gorm.DB) *StageHistoryRepository {
	return &StageHistoryRepository{db: db}
}

// RecordTransition appends one stage change. fromStage is nil for the entry
// written when the opportunity is created.
func (r *StageHistoryRepository) RecordTransition(ctx context.Context, opportunityID uuid.UUID, fromStage *domain.OpportunityStage, toStage domain.OpportunityStage, reason string, changedByID uuid.UUID, changedByName string) error {
	entry := &domain.OpportunityStageHistory{
		OpportunityID: opportunityID,
		FromStage:     fromStage,
		ToStage:       toStage,
		Reason:        reason,
		ChangedByID:   changedByID,
		ChangedByName: changedByName,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByOpportunity returns the full history for an opportunity, oldest first
func (r *StageHistoryRepository) ListByOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]domain.OpportunityStageHistory, error) {
	var history []domain.OpportunityStageHistory
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ?", opportunityID).
		Order("created_at ASC").
		Find(&history).Error
	return history, err
}

// CountByOpportunity returns the number of recorded transitions
func (r *StageHistoryRepository) CountByOpportunity(ctx context.Context, opportunityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.OpportunityStageHistory{}).
		Where("opportunity_id = ?", opportunityID).
		Count(&count).Error
	return count, err
}
