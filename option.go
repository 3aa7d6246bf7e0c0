package bearerauth

import (
	"errors"
	"net/http"

	"github.com/ghgc/bearerauth/core"
	"github.com/ghgc/bearerauth/telemetry"
)

// Construction errors.
var (
	ErrVerifierNil        = errors.New("verifier cannot be nil (use WithVerifier)")
	ErrErrorHandlerNil    = errors.New("error handler cannot be nil")
	ErrTokenExtractorNil  = errors.New("token extractor cannot be nil")
	ErrExclusionUrlsEmpty = errors.New("exclusion URLs cannot be empty")
	ErrLoggerNil          = errors.New("logger cannot be nil")
)

// Option configures the Middleware.
type Option func(*Middleware) error

// WithVerifier sets the token verifier, usually a *validator.Validator.
// This is a required option.
func WithVerifier(v core.Verifier) Option {
	return func(m *Middleware) error {
		if v == nil {
			return ErrVerifierNil
		}
		m.verifier = v
		return nil
	}
}

// WithCredentialsOptional lets requests without a token through
// unauthenticated.
//
// Default: false (credentials required)
func WithCredentialsOptional(value bool) Option {
	return func(m *Middleware) error {
		m.credentialsOptional = value
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests are authenticated.
//
// Default: true
func WithValidateOnOptions(value bool) Option {
	return func(m *Middleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Middleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithTokenExtractor replaces AuthHeaderTokenExtractor.
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *Middleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithExclusionUrls skips authentication for requests whose path or full
// URL equals one of exclusions.
func WithExclusionUrls(exclusions []string) Option {
	return func(m *Middleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionUrlsEmpty
		}
		excluded := make(map[string]struct{}, len(exclusions))
		for _, e := range exclusions {
			excluded[e] = struct{}{}
		}
		m.exclusionURLHandler = func(r *http.Request) bool {
			if _, ok := excluded[r.URL.Path]; ok {
				return true
			}
			_, ok := excluded[r.URL.String()]
			return ok
		}
		return nil
	}
}

// WithLogger sets the logger used by the middleware and its core.
func WithLogger(logger telemetry.Logger) Option {
	return func(m *Middleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}
