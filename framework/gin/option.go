package bearergin

import (
	"github.com/gin-gonic/gin"

	"github.com/ghgc/bearerauth"
)

// Option configures the gin middleware.
type Option func(*config)

// WithErrorHandler replaces DefaultErrorHandler. The handler must abort ctx.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(cfg *config) {
		if handler != nil {
			cfg.errorHandler = handler
		}
	}
}

// WithIdentityKey changes the gin context key of the identity.
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
