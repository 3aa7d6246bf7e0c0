// Package bearergin adapts core.Core to gin.
package bearergin

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ghgc/bearerauth"
	"github.com/ghgc/bearerauth/core"
)

// DefaultIdentityKey is the gin context key the identity is stored under.
const DefaultIdentityKey = "bearerauth.identity"

// ErrMissingIdentity is returned by GetIdentity when the request was not
// authenticated.
var ErrMissingIdentity = errors.New("no identity found in gin context")

type config struct {
	errorHandler   func(*gin.Context, error)
	identityKey    string
	tokenExtractor bearerauth.TokenExtractor
}

// New returns a gin middleware authenticating requests with c. The identity
// is stored both in the gin context and in the request context.
func New(c *core.Core, opts ...Option) gin.HandlerFunc {
	cfg := &config{
		errorHandler:   DefaultErrorHandler,
		identityKey:    DefaultIdentityKey,
		tokenExtractor: bearerauth.AuthHeaderTokenExtractor,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx *gin.Context) {
		token, err := cfg.tokenExtractor(ctx.Request)
		if err != nil {
			cfg.errorHandler(ctx, bearerauth.Rejection(fmt.Errorf("error extracting token: %w", err)))
			return
		}

		identity, err := c.CheckToken(ctx.Request.Context(), token)
		if err != nil {
			cfg.errorHandler(ctx, err)
			return
		}

		if identity != nil {
			ctx.Set(cfg.identityKey, identity)
			ctx.Request = ctx.Request.WithContext(core.SetIdentity(ctx.Request.Context(), identity))
		}
		ctx.Next()
	}
}

// DefaultErrorHandler aborts with the same status and body as
// bearerauth.DefaultErrorHandler.
func DefaultErrorHandler(ctx *gin.Context, err error) {
	status, message := bearerauth.ResponseFor(err)
	ctx.AbortWithStatusJSON(status, gin.H{"message": message})
}

// GetIdentity returns the identity stored under DefaultIdentityKey.
func GetIdentity(ctx *gin.Context) (*core.Identity, error) {
	return GetIdentityWithKey(ctx, DefaultIdentityKey)
}

// GetIdentityWithKey returns the identity stored under key.
func GetIdentityWithKey(ctx *gin.Context, key string) (*core.Identity, error) {
	value, exists := ctx.Get(key)
	if !exists {
		return nil, ErrMissingIdentity
	}
	identity, ok := value.(*core.Identity)
	if !ok || identity == nil {
		return nil, ErrMissingIdentity
	}
	return identity, nil
}
