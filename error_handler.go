package bearerauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ghgc/bearerauth/core"
)

var (
	// ErrJWTMissing is passed to the ErrorHandler when the request has no
	// token and credentials are required.
	ErrJWTMissing = core.ErrJWTMissing

	// ErrJWTInvalid matches every rejected token: bad signature, unknown
	// key, expired, malformed header or missing subject.
	ErrJWTInvalid = errors.New("jwt invalid")
)

// Response messages.
const (
	MessageNotAuthenticated = "Not authenticated"
	MessageBadAuthToken     = "Bad auth token"
	MessageInternalError    = "Something went wrong while checking the JWT."
)

// ErrorHandler writes the response for a request the middleware refused.
// err matches ErrJWTMissing or ErrJWTInvalid for rejected callers; anything
// else is a server-side failure such as an unreachable JWKS endpoint.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler answers rejected callers with 403 and server-side
// failures with 500. The body never reveals why a token was rejected.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status, message := ResponseFor(err)
	writeJSON(w, status, messageBody{Message: message})
}

// ResponseFor maps an authentication error to the status code and message
// DefaultErrorHandler writes. The framework adapters use it so every
// transport answers alike.
func ResponseFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrJWTMissing):
		return http.StatusForbidden, MessageNotAuthenticated
	case errors.Is(err, ErrJWTInvalid), core.IsRejection(err):
		return http.StatusForbidden, MessageBadAuthToken
	default:
		return http.StatusInternalServerError, MessageInternalError
	}
}

// Rejection marks err, typically a token extraction failure, as a rejected
// token so that it matches ErrJWTInvalid.
func Rejection(err error) error {
	return &invalidError{details: err}
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// invalidError marks a rejection with ErrJWTInvalid while keeping the
// underlying error reachable for custom handlers.
type invalidError struct {
	details error
}

func (e *invalidError) Is(target error) bool {
	return target == ErrJWTInvalid
}

func (e *invalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrJWTInvalid, e.details)
}

func (e *invalidError) Unwrap() error {
	return e.details
}
