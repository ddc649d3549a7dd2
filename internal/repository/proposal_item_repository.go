package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

type ProposalItemRepository struct {
	db *gorm.DB
}

func NewProposalItemRepository(db *gorm.DB) *ProposalItemRepository {
	return &ProposalItemRepository{db: db}
}

func (r *ProposalItemRepository) Create(ctx context.Context, item *domain.ProposalItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ProposalItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalItem, error) {
	var item domain.ProposalItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ProposalItemRepository) Update(ctx context.Context, item *domain.ProposalItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ProposalItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ProposalItem{}, "id = ?", id).Error
}

// ListByProposal returns a proposal's items in collection order
func (r *ProposalItemRepository) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.ProposalItem, error) {
	var items []domain.ProposalItem
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("sort_order ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

// NextSortOrder returns the sort order for a newly appended item
func (r *ProposalItemRepository) NextSortOrder(ctx context.Context, proposalID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&domain.ProposalItem{}).
		Where("proposal_id = ?", proposalID).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}
