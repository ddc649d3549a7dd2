package store

import "errors"

// Guard errors returned before any network call is made. The backend enforces
// the same rules; a backend decision always wins over these local checks.
var (
	ErrReasonRequired = errors.New("a rejection reason is required")
	ErrNotDraft       = errors.New("proposal is not in draft status")
	ErrNotAllowed     = errors.New("action not permitted for the current roles")
	ErrInvalidStage   = errors.New("invalid opportunity stage")
)
