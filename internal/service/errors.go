package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnauthorized is returned when no authenticated user is on the context
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrClientNotFound is returned when a client is not found
	ErrClientNotFound = errors.New("client not found")

	// ErrOpportunityNotFound is returned when an opportunity is not found
	ErrOpportunityNotFound = errors.New("opportunity not found")

	// ErrProposalNotFound is returned when a proposal is not found
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrProposalItemNotFound is returned when a line item is not found
	ErrProposalItemNotFound = errors.New("proposal item not found")

	// ErrDocumentNotFound is returned when a proposal document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrNotificationNotFound is returned when a notification is not found or
	// belongs to another recipient
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrProposalNotDraft is returned when a draft-only mutation is attempted
	// on a proposal that has left the draft status
	ErrProposalNotDraft = errors.New("proposal is not in draft status")

	// ErrProposalNotSubmitted is returned when approve or reject is attempted
	// on a proposal that is not in submitted status
	ErrProposalNotSubmitted = errors.New("proposal is not in submitted status")

	// ErrRejectionReasonRequired is returned when reject is called without a
	// non-empty reason
	ErrRejectionReasonRequired = errors.New("rejection reason is required")

	// ErrInvalidStage is returned when an unknown opportunity stage is provided
	ErrInvalidStage = errors.New("invalid opportunity stage")
)
