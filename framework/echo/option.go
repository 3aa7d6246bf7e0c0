package bearerecho

import (
	"github.com/labstack/echo/v4"

	"github.com/ghgc/bearerauth"
)

// Option configures the echo middleware.
type Option func(*config)

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(cfg *config) {
		if handler != nil {
			cfg.errorHandler = handler
		}
	}
}

// WithIdentityKey changes the echo context key of the identity.
func WithIdentityKey(key string) Option {
	return func(cfg *config) {
		if key != "" {
			cfg.identityKey = key
		}
	}
}

// WithTokenExtractor replaces bearerauth.AuthHeaderTokenExtractor.
func WithTokenExtractor(extractor bearerauth.TokenExtractor) Option {
	return func(cfg *config) {
		if extractor != nil {
			cfg.tokenExtractor = extractor
		}
	}
}

// WithSkipper lets requests for which skipper returns true through
// unauthenticated.
func WithSkipper(skipper func(echo.Context) bool) Option {
	return func(cfg *config) {
		cfg.skipper = skipper
	}
}
