package core

import (
	"context"
	"time"

	"github.com/ghgc/bearerauth/telemetry"
	"github.com/ghgc/bearerauth/validator"
)

// Verifier verifies a raw token and returns its normalized claims.
// *validator.Validator implements it.
type Verifier interface {
	Verify(ctx context.Context, raw string) (validator.Claims, error)
}

// Identity is the authenticated caller of a single request.
type Identity struct {
	Subject string
	Claims  validator.Claims
}

// Core is the framework-agnostic authentication engine.
type Core struct {
	verifier            Verifier
	credentialsOptional bool
	logger              telemetry.Logger
}

// CheckToken verifies token and resolves the caller:
//   - empty token with optional credentials: (nil, nil)
//   - empty token otherwise: ErrJWTMissing
//   - verification failure: the verifier's error, unchanged
//   - token without subject: *validator.MissingSubjectError
func (c *Core) CheckToken(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		if c.credentialsOptional {
			c.logger.Debug("No token provided, but credentials are optional")
			return nil, nil
		}
		c.logger.Warn("No token provided and credentials are required")
		return nil, ErrJWTMissing
	}

	start := time.Now()
	claims, err := c.verifier.Verify(ctx, token)
	duration := time.Since(start)
	if err != nil {
		c.logger.Debug("Token verification failed", "code", Classify(err), "duration", duration)
		return nil, err
	}

	subject, err := validator.ResolveIdentity(claims)
	if err != nil {
		c.logger.Warn("Verified token has no subject", "duration", duration)
		return nil, err
	}

	c.logger.Debug("Token verified", "sub", subject, "duration", duration)
	return &Identity{Subject: subject, Claims: claims}, nil
}
