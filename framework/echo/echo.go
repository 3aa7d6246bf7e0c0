// Package bearerecho adapts core.Core to echo.
package bearerecho

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/ghgc/bearerauth"
	"github.com/ghgc/bearerauth/core"
)

// DefaultIdentityKey is the echo context key the identity is stored under.
const DefaultIdentityKey = "bearerauth.identity"

type config struct {
	errorHandler   func(echo.Context, error) error
	identityKey    string
	tokenExtractor bearerauth.TokenExtractor
	skipper        func(echo.Context) bool
}

// New returns an echo middleware authenticating requests with c.
func New(c *core.Core, opts ...Option) echo.MiddlewareFunc {
	cfg := &config{
		errorHandler:   DefaultErrorHandler,
		identityKey:    DefaultIdentityKey,
		tokenExtractor: bearerauth.AuthHeaderTokenExtractor,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if cfg.skipper != nil && cfg.skipper(ctx) {
				return next(ctx)
			}

			token, err := cfg.tokenExtractor(ctx.Request())
			if err != nil {
				return cfg.errorHandler(ctx, bearerauth.Rejection(fmt.Errorf("error extracting token: %w", err)))
			}

			identity, err := c.CheckToken(ctx.Request().Context(), token)
			if err != nil {
				return cfg.errorHandler(ctx, err)
			}

			if identity != nil {
				ctx.Set(cfg.identityKey, identity)
				ctx.SetRequest(ctx.Request().WithContext(core.SetIdentity(ctx.Request().Context(), identity)))
			}
			return next(ctx)
		}
	}
}

// DefaultErrorHandler writes the same status and body as
// bearerauth.DefaultErrorHandler.
func DefaultErrorHandler(ctx echo.Context, err error) error {
	status, message := bearerauth.ResponseFor(err)
	return ctx.JSON(status, map[string]string{"message": message})
}

// GetIdentity returns the identity stored under key, or DefaultIdentityKey
// when key is empty.
func GetIdentity(ctx echo.Context, key string) (*core.Identity, bool) {
	if key == "" {
		key = DefaultIdentityKey
	}
	identity, ok := ctx.Get(key).(*core.Identity)
	return identity, ok && identity != nil
}
