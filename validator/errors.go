package validator

import "errors"

var (
	// ErrInvalidToken matches every *InvalidTokenError.
	ErrInvalidToken = errors.New("bad auth token")

	// ErrMissingSubject matches every *MissingSubjectError.
	ErrMissingSubject = errors.New("token has no subject")
)

// InvalidTokenError is returned for any token that fails verification. Its
// message does not vary with the cause.
type InvalidTokenError struct {
	cause error
}

func newInvalidTokenError(cause error) *InvalidTokenError {
	return &InvalidTokenError{cause: cause}
}

func (e *InvalidTokenError) Error() string { return ErrInvalidToken.Error() }

func (e *InvalidTokenError) Is(target error) bool { return target == ErrInvalidToken }

// Cause returns the reason the token was rejected. It is meant for logs and
// must not be echoed to the client.
func (e *InvalidTokenError) Cause() error { return e.cause }

// MissingSubjectError is returned when a verified token has no usable sub.
type MissingSubjectError struct{}

func (e *MissingSubjectError) Error() string { return ErrMissingSubject.Error() }

func (e *MissingSubjectError) Is(target error) bool { return target == ErrMissingSubject }
