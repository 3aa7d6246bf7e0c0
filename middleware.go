package bearerauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ghgc/bearerauth/core"
	"github.com/ghgc/bearerauth/telemetry"
)

// Middleware authenticates requests for net/http handlers.
type Middleware struct {
	core                *core.Core
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              telemetry.Logger

	// Used during construction only.
	verifier            core.Verifier
	credentialsOptional bool
}

// ExclusionURLHandler reports whether r skips authentication.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a Middleware. WithVerifier is required.
//
//	middleware, err := bearerauth.New(
//	    bearerauth.WithVerifier(v),
//	    bearerauth.WithExclusionUrls([]string{"/healthz"}),
//	)
func New(opts ...Option) (*Middleware, error) {
	m := &Middleware{
		validateOnOptions: true,
		logger:            telemetry.NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if m.verifier == nil {
		return nil, fmt.Errorf("invalid middleware configuration: %w", ErrVerifierNil)
	}

	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.tokenExtractor == nil {
		m.tokenExtractor = AuthHeaderTokenExtractor
	}

	c, err := core.New(
		core.WithVerifier(m.verifier),
		core.WithCredentialsOptional(m.credentialsOptional),
		core.WithLogger(m.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}
	m.core = c

	return m, nil
}

// CheckJWT authenticates the request and calls next with the caller's
// identity in the request context.
func (m *Middleware) CheckJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.exclusionURLHandler != nil && m.exclusionURLHandler(r) {
			m.logger.Debug("skipping authentication for excluded URL", "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}
		if !m.validateOnOptions && r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token, err := m.tokenExtractor(r)
		if err != nil {
			// A malformed header is a rejection, not a missing token.
			m.logger.Warn("failed to extract token from request", "error", err, "path", r.URL.Path)
			m.errorHandler(w, r, Rejection(fmt.Errorf("error extracting token: %w", err)))
			return
		}

		identity, err := m.core.CheckToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, core.ErrJWTMissing):
				m.errorHandler(w, r, ErrJWTMissing)
			case core.IsRejection(err):
				m.errorHandler(w, r, Rejection(err))
			default:
				m.logger.Error("could not authenticate request", "error", err, "path", r.URL.Path)
				m.errorHandler(w, r, err)
			}
			return
		}

		if identity == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(core.SetIdentity(r.Context(), identity)))
	})
}

// IdentityFromContext returns the identity stored by the middleware.
func IdentityFromContext(ctx context.Context) (*core.Identity, bool) {
	identity, err := core.GetIdentity(ctx)
	return identity, err == nil
}

// SubjectFromContext returns the authenticated subject (the sub claim).
func SubjectFromContext(ctx context.Context) (string, bool) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return "", false
	}
	return identity.Subject, true
}
