package service

// Line item mutations. Items are mutable only while the owning proposal is in
// draft; every mutation re-derives the proposal's subtotal and total.

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/mapper"
	"github.com/jason-govender/salesflow-api/internal/pricing"
)

// AddItem appends a line item to a draft proposal
func (s *ProposalService) AddItem(ctx context.Context, proposalID uuid.UUID, req *domain.AddProposalItemRequest) (*domain.ProposalDTO, error) {
	proposal, err := s.getDraftProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	sortOrder, err := s.itemRepo.NextSortOrder(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to determine sort order: %w", err)
	}

	item := &domain.ProposalItem{
		ProposalID:      proposalID,
		Name:            req.Name,
		Description:     req.Description,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		DiscountPercent: req.DiscountPercent,
		TaxRatePercent:  req.TaxRatePercent,
		LineTotal:       pricing.LineTotal(req.Quantity, req.UnitPrice, req.DiscountPercent, req.TaxRatePercent),
		SortOrder:       sortOrder,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if err := s.recomputeTotals(ctx, proposalID); err != nil {
		return nil, err
	}

	s.logActivity(ctx, domain.ActivityItemAdded,
		fmt.Sprintf("Item '%s' added to proposal '%s'", item.Name, proposal.Title),
		&proposal.ID, &proposal.OpportunityID)

	return s.reloadDTO(ctx, proposalID)
}

// UpdateItem edits a line item on a draft proposal
func (s *ProposalService) UpdateItem(ctx context.Context, proposalID, itemID uuid.UUID, req *domain.UpdateProposalItemRequest) (*domain.ProposalDTO, error) {
	proposal, err := s.getDraftProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item.ProposalID != proposalID {
		return nil, ErrProposalItemNotFound
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
	if req.DiscountPercent != nil {
		item.DiscountPercent = *req.DiscountPercent
	}
	if req.TaxRatePercent != nil {
		item.TaxRatePercent = *req.TaxRatePercent
	}
	item.LineTotal = pricing.LineTotal(item.Quantity, item.UnitPrice, item.DiscountPercent, item.TaxRatePercent)

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if err := s.recomputeTotals(ctx, proposalID); err != nil {
		return nil, err
	}

	s.logActivity(ctx, domain.ActivityItemUpdated,
		fmt.Sprintf("Item '%s' updated on proposal '%s'", item.Name, proposal.Title),
		&proposal.ID, &proposal.OpportunityID)

	return s.reloadDTO(ctx, proposalID)
}

// RemoveItem deletes a line item from a draft proposal
func (s *ProposalService) RemoveItem(ctx context.Context, proposalID, itemID uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.getDraftProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item.ProposalID != proposalID {
		return nil, ErrProposalItemNotFound
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}

	if err := s.recomputeTotals(ctx, proposalID); err != nil {
		return nil, err
	}

	s.logActivity(ctx, domain.ActivityItemRemoved,
		fmt.Sprintf("Item '%s' removed from proposal '%s'", item.Name, proposal.Title),
		&proposal.ID, &proposal.OpportunityID)

	return s.reloadDTO(ctx, proposalID)
}

// getDraftProposal loads a proposal and verifies it is still mutable
func (s *ProposalService) getDraftProposal(ctx context.Context, proposalID uuid.UUID) (*domain.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	if proposal.Status != domain.ProposalStatusDraft {
		return nil, ErrProposalNotDraft
	}
	return proposal, nil
}

func (s *ProposalService) reloadDTO(ctx context.Context, proposalID uuid.UUID) (*domain.ProposalDTO, error) {
	updated, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload proposal: %w", err)
	}
	dto := mapper.ToProposalDTO(updated)
	return &dto, nil
}
