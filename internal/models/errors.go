package models

import "errors"

// Terminal, caller-visible outcomes of the workflow operations. Handlers map
// each of these to a distinct HTTP status and machine-readable code so the UI
// can tell "someone else just filled that role" apart from "you already
// applied".
var (
	ErrNotFound             = errors.New("entity not found")
	ErrForbidden            = errors.New("actor not authorized for this action")
	ErrInvalidState         = errors.New("operation not valid in current state")
	ErrDuplicateApplication = errors.New("applicant already has an active application")
	ErrRequirementClosed    = errors.New("requirement is closed")
	ErrRequirementFull      = errors.New("requirement capacity already filled")
	ErrContention           = errors.New("too many concurrent updates, try again")
	ErrConflict             = errors.New("conflicting entity state")

	// ErrVersionConflict is internal to the store layer: a conditional write
	// lost to a concurrent writer. The fulfillment engine retries on it; it
	// never reaches callers directly.
	ErrVersionConflict = errors.New("version conflict")
)

// ValidationError describes a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
