package domain

import (
	"github.com/google/uuid"
)

// DTOs returned by the API. Timestamps are ISO 8601 strings.

type ClientDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OrgNumber string    `json:"orgNumber,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type OpportunityDTO struct {
	ID                uuid.UUID         `json:"id"`
	ClientID          uuid.UUID         `json:"clientId"`
	ClientName        string            `json:"clientName,omitempty"`
	Title             string            `json:"title"`
	Description       string            `json:"description,omitempty"`
	ContactID         *uuid.UUID        `json:"contactId,omitempty"`
	EstimatedValue    float64           `json:"estimatedValue"`
	Currency          string            `json:"currency"`
	Stage             OpportunityStage  `json:"stage"`
	Source            OpportunitySource `json:"source,omitempty"`
	Probability       int               `json:"probability"`
	ExpectedCloseDate *string           `json:"expectedCloseDate,omitempty"`
	OwnerID           uuid.UUID         `json:"ownerId"`
	OwnerName         string            `json:"ownerName,omitempty"`
	CreatedAt         string            `json:"createdAt"`
	UpdatedAt         string            `json:"updatedAt"`
}

type StageHistoryDTO struct {
	ID            uuid.UUID         `json:"id"`
	OpportunityID uuid.UUID         `json:"opportunityId"`
	FromStage     *OpportunityStage `json:"fromStage,omitempty"`
	ToStage       OpportunityStage  `json:"toStage"`
	Reason        string            `json:"reason,omitempty"`
	ChangedByID   uuid.UUID         `json:"changedById"`
	ChangedByName string            `json:"changedByName,omitempty"`
	ChangedAt     string            `json:"changedAt"`
}

type ProposalDTO struct {
	ID              uuid.UUID         `json:"id"`
	OpportunityID   uuid.UUID         `json:"opportunityId"`
	ClientID        uuid.UUID         `json:"clientId"`
	ClientName      string            `json:"clientName,omitempty"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	Currency        string            `json:"currency"`
	ValidUntil      string            `json:"validUntil"`
	Status          ProposalStatus    `json:"status"`
	Subtotal        float64           `json:"subtotal"`
	Total           float64           `json:"total"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	Items           []ProposalItemDTO `json:"items"`
	CreatedAt       string            `json:"createdAt"`
	UpdatedAt       string            `json:"updatedAt"`
}

type ProposalItemDTO struct {
	ID              uuid.UUID `json:"id"`
	ProposalID      uuid.UUID `json:"proposalId"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Quantity        float64   `json:"quantity"`
	UnitPrice       float64   `json:"unitPrice"`
	DiscountPercent float64   `json:"discountPercent"`
	TaxRatePercent  float64   `json:"taxRatePercent"`
	LineTotal       float64   `json:"lineTotal"`
	SortOrder       int       `json:"sortOrder"`
}

type ProposalDocumentDTO struct {
	ID          uuid.UUID `json:"id"`
	ProposalID  uuid.UUID `json:"proposalId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType,omitempty"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

type ActivityDTO struct {
	ID            uuid.UUID    `json:"id"`
	Type          ActivityType `json:"type"`
	Description   string       `json:"description"`
	ProposalID    *uuid.UUID   `json:"proposalId,omitempty"`
	OpportunityID *uuid.UUID   `json:"opportunityId,omitempty"`
	UserID        uuid.UUID    `json:"userId"`
	UserName      string       `json:"userName,omitempty"`
	CreatedAt     string       `json:"createdAt"`
}

type NotificationDTO struct {
	ID            uuid.UUID        `json:"id"`
	RecipientID   uuid.UUID        `json:"recipientId"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message,omitempty"`
	ProposalID    *uuid.UUID       `json:"proposalId,omitempty"`
	OpportunityID *uuid.UUID       `json:"opportunityId,omitempty"`
	Read          bool             `json:"read"`
	CreatedAt     string           `json:"createdAt"`
}

type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	ExternalRef string    `json:"externalRef"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	Active      bool      `json:"active"`
}

// PaginatedResponse wraps list results with paging metadata
type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}
