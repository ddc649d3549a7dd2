package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel contains common fields for all entities
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the primary key when the caller did not set one.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UserRoleType represents a caller role carried in the access token
type UserRoleType string

const (
	RoleAdmin        UserRoleType = "admin"
	RoleSalesManager UserRoleType = "sales_manager"
	RoleSalesRep     UserRoleType = "sales_rep"
)

// IsValid checks if the role is a known value
func (r UserRoleType) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSalesManager, RoleSalesRep:
		return true
	}
	return false
}

// ProposalStatus represents the lifecycle status of a proposal
type ProposalStatus string

const (
	ProposalStatusDraft     ProposalStatus = "draft"
	ProposalStatusSubmitted ProposalStatus = "submitted"
	ProposalStatusApproved  ProposalStatus = "approved"
	ProposalStatusRejected  ProposalStatus = "rejected"
)

// IsValid checks if the proposal status is a valid value
func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusSubmitted, ProposalStatusApproved, ProposalStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusApproved || s == ProposalStatusRejected
}

// OpportunityStage represents the pipeline position of an opportunity
type OpportunityStage string

const (
	StageLead        OpportunityStage = "lead"
	StageQualified   OpportunityStage = "qualified"
	StageProposal    OpportunityStage = "proposal"
	StageNegotiation OpportunityStage = "negotiation"
	StageClosedWon   OpportunityStage = "closed_won"
	StageClosedLost  OpportunityStage = "closed_lost"
)

// IsValid checks if the stage is a valid value
func (s OpportunityStage) IsValid() bool {
	switch s {
	case StageLead, StageQualified, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

// OpportunitySource represents where an opportunity originated
type OpportunitySource string

const (
	SourceReferral OpportunitySource = "referral"
	SourceInbound  OpportunitySource = "inbound"
	SourceOutbound OpportunitySource = "outbound"
	SourceEvent    OpportunitySource = "event"
	SourceOther    OpportunitySource = "other"
)

// IsValid checks if the source is a valid value
func (s OpportunitySource) IsValid() bool {
	switch s {
	case SourceReferral, SourceInbound, SourceOutbound, SourceEvent, SourceOther:
		return true
	}
	return false
}

// ActivityType categorizes audit-trail entries
type ActivityType string

const (
	ActivityProposalCreated   ActivityType = "proposal_created"
	ActivityProposalUpdated   ActivityType = "proposal_updated"
	ActivityProposalSubmitted ActivityType = "proposal_submitted"
	ActivityProposalApproved  ActivityType = "proposal_approved"
	ActivityProposalRejected  ActivityType = "proposal_rejected"
	ActivityProposalDeleted   ActivityType = "proposal_deleted"
	ActivityItemAdded         ActivityType = "proposal_item_added"
	ActivityItemUpdated       ActivityType = "proposal_item_updated"
	ActivityItemRemoved       ActivityType = "proposal_item_removed"
	ActivityStageChanged      ActivityType = "opportunity_stage_changed"
	ActivityOwnerAssigned     ActivityType = "opportunity_assigned"
)

// NotificationType categorizes user notifications
type NotificationType string

const (
	NotificationProposalApproved NotificationType = "proposal_approved"
	NotificationProposalRejected NotificationType = "proposal_rejected"
	NotificationProposalExpired  NotificationType = "proposal_expired"
)

// Client is a company proposals and opportunities are written against
type Client struct {
	BaseModel
	Name      string `gorm:"not null;index" json:"name"`
	OrgNumber string `gorm:"index" json:"orgNumber"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Active    bool   `gorm:"default:true" json:"active"`
}

// Opportunity is a sales deal tracked through the pipeline stages
type Opportunity struct {
	BaseModel
	ClientID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"clientId"`
	Client            *Client           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Title             string            `gorm:"not null" json:"title"`
	Description       string            `json:"description,omitempty"`
	ContactID         *uuid.UUID        `gorm:"type:uuid" json:"contactId,omitempty"`
	EstimatedValue    float64           `json:"estimatedValue"`
	Currency          string            `gorm:"size:3;not null" json:"currency"`
	Stage             OpportunityStage  `gorm:"not null;default:'lead';index" json:"stage"`
	Source            OpportunitySource `json:"source,omitempty"`
	Probability       int               `json:"probability"`
	ExpectedCloseDate *time.Time        `json:"expectedCloseDate,omitempty"`
	OwnerID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"ownerId"`
	OwnerName         string            `json:"ownerName"`
}

// OpportunityStageHistory records one stage change. Rows are append-only:
// they are never updated or deleted once written.
type OpportunityStageHistory struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	OpportunityID uuid.UUID         `gorm:"type:uuid;not null;index" json:"opportunityId"`
	FromStage     *OpportunityStage `json:"fromStage,omitempty"`
	ToStage       OpportunityStage  `gorm:"not null" json:"toStage"`
	Reason        string            `json:"reason,omitempty"`
	ChangedByID   uuid.UUID         `gorm:"type:uuid" json:"changedById"`
	ChangedByName string            `json:"changedByName,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// TableName overrides the default pluralization
func (OpportunityStageHistory) TableName() string {
	return "opportunity_stage_history"
}

// BeforeCreate assigns the primary key when the caller did not set one.
func (h *OpportunityStageHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Proposal is a priced offer tied to exactly one client and one opportunity.
// ClientID and OpportunityID are fixed at creation and never change.
type Proposal struct {
	BaseModel
	OpportunityID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"opportunityId"`
	Opportunity     *Opportunity   `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
	ClientID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"clientId"`
	Client          *Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `json:"description,omitempty"`
	Currency        string         `gorm:"size:3;not null" json:"currency"`
	ValidUntil      time.Time      `gorm:"not null" json:"validUntil"`
	Status          ProposalStatus `gorm:"not null;default:'draft';index" json:"status"`
	Subtotal        float64        `json:"subtotal"`
	Total           float64        `json:"total"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	Items           []ProposalItem `gorm:"foreignKey:ProposalID" json:"items,omitempty"`
}

// ProposalItem is one priced row on a proposal. Items are mutable only while
// the owning proposal is in draft.
type ProposalItem struct {
	BaseModel
	ProposalID      uuid.UUID `gorm:"type:uuid;not null;index" json:"proposalId"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `json:"description,omitempty"`
	Quantity        float64   `gorm:"not null" json:"quantity"`
	UnitPrice       float64   `gorm:"not null" json:"unitPrice"`
	DiscountPercent float64   `json:"discountPercent"`
	TaxRatePercent  float64   `json:"taxRatePercent"`
	LineTotal       float64   `json:"lineTotal"`
	SortOrder       int       `json:"sortOrder"`
}

// ProposalDocument holds metadata for a file attached to a proposal; the
// bytes live in blob storage under StoragePath.
type ProposalDocument struct {
	BaseModel
	ProposalID  uuid.UUID `gorm:"type:uuid;not null;index" json:"proposalId"`
	FileName    string    `gorm:"not null" json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	StoragePath string    `gorm:"not null" json:"-"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
}

// Activity is an audit-trail entry written on lifecycle transitions
type Activity struct {
	BaseModel
	Type          ActivityType `gorm:"not null;index" json:"type"`
	Description   string       `gorm:"not null" json:"description"`
	ProposalID    *uuid.UUID   `gorm:"type:uuid;index" json:"proposalId,omitempty"`
	OpportunityID *uuid.UUID   `gorm:"type:uuid;index" json:"opportunityId,omitempty"`
	UserID        uuid.UUID    `gorm:"type:uuid" json:"userId"`
	UserName      string       `json:"userName,omitempty"`
}

// Notification is delivered to the opportunity owner on proposal outcomes
type Notification struct {
	BaseModel
	RecipientID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"recipientId"`
	Type          NotificationType `gorm:"not null" json:"type"`
	Title         string           `gorm:"not null" json:"title"`
	Message       string           `json:"message,omitempty"`
	ProposalID    *uuid.UUID       `gorm:"type:uuid" json:"proposalId,omitempty"`
	OpportunityID *uuid.UUID       `gorm:"type:uuid" json:"opportunityId,omitempty"`
	Read          bool             `gorm:"default:false;index" json:"read"`
}

// User is a sales person synced from the corporate directory. Roles are not
// persisted; they arrive with the access token.
type User struct {
	BaseModel
	ExternalRef string `gorm:"uniqueIndex;not null" json:"externalRef"`
	DisplayName string `gorm:"not null" json:"displayName"`
	Email       string `gorm:"index" json:"email"`
	Active      bool   `gorm:"default:true" json:"active"`
}

// DefaultStageProbability returns the default win probability applied when an
// opportunity enters a stage without an explicit probability.
func DefaultStageProbability(stage OpportunityStage) int {
	switch stage {
	case StageLead:
		return 10
	case StageQualified:
		return 25
	case StageProposal:
		return 50
	case StageNegotiation:
		return 75
	case StageClosedWon:
		return 100
	case StageClosedLost:
		return 0
	}
	return 0
}
