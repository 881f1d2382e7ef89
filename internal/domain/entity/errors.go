package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound no account matches the given identifier
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken an account with this email already exists
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrRideNotFound no posting matches the given ride id
	ErrRideNotFound = errors.New("ride not found")

	// ErrRideInactive the posting is soft-deleted
	ErrRideInactive = errors.New("ride is no longer active")

	// ErrRideFull no seats left on the posting
	ErrRideFull = errors.New("no seats left on this ride")

	// ErrDuplicateRequest the phone number already requested this posting
	ErrDuplicateRequest = errors.New("seat already requested for this ride")

	// ErrNotificationNotFound no notification matches the given id
	ErrNotificationNotFound = errors.New("notification not found")
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
