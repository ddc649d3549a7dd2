// Package mapper converts persistence models to API DTOs.
package mapper

import (
	"time"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// DateFormat is the wire format for date-only fields such as validUntil.
const DateFormat = "2006-01-02"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// ToClientDTO converts a client model to its DTO
func ToClientDTO(c *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:        c.ID,
		Name:      c.Name,
		OrgNumber: c.OrgNumber,
		Email:     c.Email,
		Phone:     c.Phone,
		Active:    c.Active,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

// ToOpportunityDTO converts an opportunity model to its DTO
func ToOpportunityDTO(o *domain.Opportunity) domain.OpportunityDTO {
	dto := domain.OpportunityDTO{
		ID:                o.ID,
		ClientID:          o.ClientID,
		Title:             o.Title,
		Description:       o.Description,
		ContactID:         o.ContactID,
		EstimatedValue:    o.EstimatedValue,
		Currency:          o.Currency,
		Stage:             o.Stage,
		Source:            o.Source,
		Probability:       o.Probability,
		ExpectedCloseDate: formatDatePtr(o.ExpectedCloseDate),
		OwnerID:           o.OwnerID,
		OwnerName:         o.OwnerName,
		CreatedAt:         formatTime(o.CreatedAt),
		UpdatedAt:         formatTime(o.UpdatedAt),
	}
	if o.Client != nil {
		dto.ClientName = o.Client.Name
	}
	return dto
}

// ToStageHistoryDTO converts a stage history entry to its DTO
func ToStageHistoryDTO(h *domain.OpportunityStageHistory) domain.StageHistoryDTO {
	return domain.StageHistoryDTO{
		ID:            h.ID,
		OpportunityID: h.OpportunityID,
		FromStage:     h.FromStage,
		ToStage:       h.ToStage,
		Reason:        h.Reason,
		ChangedByID:   h.ChangedByID,
		ChangedByName: h.ChangedByName,
		ChangedAt:     formatTime(h.CreatedAt),
	}
}

// ToStageHistoryDTOs converts a history slice preserving order
func ToStageHistoryDTOs(history []domain.OpportunityStageHistory) []domain.StageHistoryDTO {
	dtos := make([]domain.StageHistoryDTO, len(history))
	for i := range history {
		dtos[i] = ToStageHistoryDTO(&history[i])
	}
	return dtos
}

// ToProposalDTO converts a proposal model with its items to its DTO
func ToProposalDTO(p *domain.Proposal) domain.ProposalDTO {
	dto := domain.ProposalDTO{
		ID:              p.ID,
		OpportunityID:   p.OpportunityID,
		ClientID:        p.ClientID,
		Title:           p.Title,
		Description:     p.Description,
		Currency:        p.Currency,
		ValidUntil:      formatDate(p.ValidUntil),
		Status:          p.Status,
		Subtotal:        p.Subtotal,
		Total:           p.Total,
		RejectionReason: p.RejectionReason,
		Items:           make([]domain.ProposalItemDTO, len(p.Items)),
		CreatedAt:       formatTime(p.CreatedAt),
		UpdatedAt:       formatTime(p.UpdatedAt),
	}
	if p.Client != nil {
		dto.ClientName = p.Client.Name
	}
	for i := range p.Items {
		dto.Items[i] = ToProposalItemDTO(&p.Items[i])
	}
	return dto
}

// ToProposalItemDTO converts a line item model to its DTO
func ToProposalItemDTO(item *domain.ProposalItem) domain.ProposalItemDTO {
	return domain.ProposalItemDTO{
		ID:              item.ID,
		ProposalID:      item.ProposalID,
		Name:            item.Name,
		Description:     item.Description,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		DiscountPercent: item.DiscountPercent,
		TaxRatePercent:  item.TaxRatePercent,
		LineTotal:       item.LineTotal,
		SortOrder:       item.SortOrder,
	}
}

// ToDocumentDTO converts a proposal document model to its DTO
func ToDocumentDTO(d *domain.ProposalDocument) domain.ProposalDocumentDTO {
	return domain.ProposalDocumentDTO{
		ID:          d.ID,
		ProposalID:  d.ProposalID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   formatTime(d.CreatedAt),
	}
}

// ToActivityDTO converts an activity model to its DTO
func ToActivityDTO(a *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:            a.ID,
		Type:          a.Type,
		Description:   a.Description,
		ProposalID:    a.ProposalID,
		OpportunityID: a.OpportunityID,
		UserID:        a.UserID,
		UserName:      a.UserName,
		CreatedAt:     formatTime(a.CreatedAt),
	}
}

// ToNotificationDTO converts a notification model to its DTO
func ToNotificationDTO(n *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:            n.ID,
		RecipientID:   n.RecipientID,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
		ProposalID:    n.ProposalID,
		OpportunityID: n.OpportunityID,
		Read:          n.Read,
		CreatedAt:     formatTime(n.CreatedAt),
	}
}

// ToUserDTO converts a user model to its DTO
func ToUserDTO(u *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          u.ID,
		ExternalRef: u.ExternalRef,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Active:      u.Active,
	}
}
