package domain

import "github.com/google/uuid"

// Request payloads. Validation tags are enforced by the handlers before the
// service layer runs.

type CreateClientRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	OrgNumber string `json:"orgNumber" validate:"max=32"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=32"`
}

type UpdateClientRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	OrgNumber *string `json:"orgNumber" validate:"omitempty,max=32"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Active    *bool   `json:"active"`
}

type CreateOpportunityRequest struct {
	ClientID          uuid.UUID         `json:"clientId" validate:"required"`
	Title             string            `json:"title" validate:"required,min=1,max=200"`
	Description       string            `json:"description" validate:"max=4000"`
	ContactID         *uuid.UUID        `json:"contactId"`
	EstimatedValue    float64           `json:"estimatedValue" validate:"gte=0"`
	Currency          string            `json:"currency" validate:"required,len=3"`
	Stage             OpportunityStage  `json:"stage" validate:"omitempty,oneof=lead qualified proposal negotiation closed_won closed_lost"`
	Source            OpportunitySource `json:"source" validate:"omitempty,oneof=referral inbound outbound event other"`
	Probability       *int              `json:"probability" validate:"omitempty,gte=0,lte=100"`
	ExpectedCloseDate *string           `json:"expectedCloseDate" validate:"omitempty,datetime=2006-01-02"`
	// OwnerID defaults to the caller when omitted
	OwnerID *uuid.UUID `json:"ownerId"`
}

type UpdateOpportunityRequest struct {
	Title             *string            `json:"title" validate:"omitempty,min=1,max=200"`
	Description       *string            `json:"description" validate:"omitempty,max=4000"`
	ContactID         *uuid.UUID         `json:"contactId"`
	EstimatedValue    *float64           `json:"estimatedValue" validate:"omitempty,gte=0"`
	Currency          *string            `json:"currency" validate:"omitempty,len=3"`
	Source            *OpportunitySource `json:"source" validate:"omitempty,oneof=referral inbound outbound event other"`
	Probability       *int               `json:"probability" validate:"omitempty,gte=0,lte=100"`
	ExpectedCloseDate *string            `json:"expectedCloseDate" validate:"omitempty,datetime=2006-01-02"`
}

type SetStageRequest struct {
	Stage  OpportunityStage `json:"stage" validate:"required,oneof=lead qualified proposal negotiation closed_won closed_lost"`
	Reason string           `json:"reason" validate:"max=1000"`
}

type AssignOpportunityRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}

type CreateProposalRequest struct {
	OpportunityID uuid.UUID `json:"opportunityId" validate:"required"`
	ClientID      uuid.UUID `json:"clientId" validate:"required"`
	Title         string    `json:"title" validate:"required,min=1,max=200"`
	Description   string    `json:"description" validate:"max=4000"`
	Currency      string    `json:"currency" validate:"required,len=3"`
	ValidUntil    string    `json:"validUntil" validate:"required,datetime=2006-01-02"`
}

type UpdateProposalRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	Currency    *string `json:"currency" validate:"omitempty,len=3"`
	ValidUntil  *string `json:"validUntil" validate:"omitempty,datetime=2006-01-02"`
}

type RejectProposalRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=1000"`
}

type AddProposalItemRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=200"`
	Description     string  `json:"description" validate:"max=2000"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice       float64 `json:"unitPrice" validate:"gte=0"`
	DiscountPercent float64 `json:"discountPercent" validate:"gte=0,lte=100"`
	TaxRatePercent  float64 `json:"taxRatePercent" validate:"gte=0"`
}

type UpdateProposalItemRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description" validate:"omitempty,max=2000"`
	Quantity        *float64 `json:"quantity" validate:"omitempty,gt=0"`
	UnitPrice       *float64 `json:"unitPrice" validate:"omitempty,gte=0"`
	DiscountPercent *float64 `json:"discountPercent" validate:"omitempty,gte=0,lte=100"`
	TaxRatePercent  *float64 `json:"taxRatePercent" validate:"omitempty,gte=0"`
}
