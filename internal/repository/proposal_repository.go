package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

// ProposalFilters contains filter options for listing proposals
type ProposalFilters struct {
	ClientID      *uuid.UUID
	OpportunityID *uuid.UUID
	Status        *domain.ProposalStatus
}

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Create(ctx context.Context, proposal *domain.Proposal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(proposal).Error
}

func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("id = ?", id).
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepository) Update(ctx context.Context, proposal *domain.Proposal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(proposal).Error
}

func (r *ProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.ProposalItem{}, "proposal_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Proposal{}, "id = ?", id).Error
	})
}

func (r *ProposalRepository) List(ctx context.Context, page, pageSize int, filters *ProposalFilters) ([]domain.Proposal, int64, error) {
	var proposals []domain.Proposal
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&proposals).Error
	return proposals, total, err
}

// UpdateTotals stores the recomputed subtotal and total
func (r *ProposalRepository) UpdateTotals(ctx context.Context, id uuid.UUID, subtotal, total float64) error {
	updates := map[string]interface{}{
		"subtotal":   subtotal,
		"total":      total,
		"updated_at": time.Now(),
	}
	return r.db.WithContext(ctx).Model(&domain.Proposal{}).Where("id = ?", id).Updates(updates).Error
}

// ListExpired returns submitted proposals whose validity date passed before
// the cutoff. Used by the expiry notification job.
func (r *ProposalRepository) ListExpired(ctx context.Context, cutoff time.Time) ([]domain.Proposal, error) {
	var proposals []domain.Proposal
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.ProposalStatusSubmitted).
		Where("valid_until < ?", cutoff).
		Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepository) applyFilters(query *gorm.DB, filters *ProposalFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.ClientID != nil {
		query = query.Where("client_id = ?", *filters.ClientID)
	}

	if filters.OpportunityID != nil {
		query = query.Where("opportunity_id = ?", *filters.OpportunityID)
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	return query
}
