package core

import (
	"errors"

	"github.com/ghgc/bearerauth/validator"
)

var (
	// ErrJWTMissing is returned when the request carries no token.
	ErrJWTMissing = errors.New("jwt missing")

	// ErrIdentityNotFound is returned when the context holds no identity.
	ErrIdentityNotFound = errors.New("identity not found in context")
)

// Error codes returned by Classify.
const (
	ErrorCodeTokenMissing   = "token_missing"
	ErrorCodeInvalidToken   = "invalid_token"
	ErrorCodeMissingSubject = "missing_subject"
	ErrorCodeInternal       = "internal_error"
)

// Classify maps an error from CheckToken to a machine-readable code.
// Key set failures and anything unknown are ErrorCodeInternal.
func Classify(err error) string {
	switch {
	case errors.Is(err, ErrJWTMissing):
		return ErrorCodeTokenMissing
	case errors.Is(err, validator.ErrInvalidToken):
		return ErrorCodeInvalidToken
	case errors.Is(err, validator.ErrMissingSubject):
		return ErrorCodeMissingSubject
	default:
		return ErrorCodeInternal
	}
}

// IsRejection reports whether err means the caller is unauthenticated, as
// opposed to the server failing to decide.
func IsRejection(err error) bool {
	return err != nil && Classify(err) != ErrorCodeInternal
}
