package services

import (
	"errors"
)

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("you do not have access to this trip")
	ErrInvalidState        = errors.New("invitation is no longer valid")
	ErrConflict            = errors.New("conflict")
	ErrInvalidInput        = errors.New("invalid input")
	ErrGenerationExhausted = errors.New("could not generate a unique invitation credential")
	ErrStorage             = errors.New("storage failure")
)

var (
	ErrInvitationNotFound = kindError(ErrNotFound, "invitation not found")
	ErrCodeNotFound       = kindError(ErrNotFound, "no active invitation matches this code")
	ErrTripNotFound       = kindError(ErrNotFound, "trip not found")
	ErrUserNotFound       = kindError(ErrNotFound, "user not found")

	ErrInvitationRevoked   = kindError(ErrInvalidState, "This invitation has been revoked")
	ErrInvitationExpired   = kindError(ErrInvalidState, "This invitation has expired")
	ErrInvitationExhausted = kindError(ErrInvalidState, "This invitation has reached its maximum number of uses")

	ErrAlreadyParticipant = kindError(ErrConflict, "You are already a participant of this trip")

	ErrMalformedCode = kindError(ErrInvalidInput, "invitation code must be exactly 6 digits")
)

// classifiedError carries a user facing message and unwraps to its kind.
type classifiedError struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &classifiedError{kind: kind, msg: msg}
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.kind }

// StorageError wraps an unexpected persistence error. It matches ErrStorage and
// the underlying driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func invalidInput(msg string) error {
	return kindError(ErrInvalidInput, msg)
}

// InvitationState names the reason an invitation cannot be redeemed, or "" when
// err is not an invalid-state error.
func InvitationState(err error) string {
	switch {
	case errors.Is(err, ErrInvitationRevoked):
		return "revoked"
	case errors.Is(err, ErrInvitationExpired):
		return "expired"
	case errors.Is(err, ErrInvitationExhausted):
		return "exhausted"
	default:
		return ""
	}
}
