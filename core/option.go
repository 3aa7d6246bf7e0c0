package core

import (
	"errors"
	"fmt"

	"github.com/ghgc/bearerauth/telemetry"
)

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// New creates a Core. WithVerifier is required.
//
//	c, err := core.New(
//	    core.WithVerifier(v),
//	    core.WithCredentialsOptional(true),
//	)
func New(opts ...Option) (*Core, error) {
	c := &Core{
		logger: telemetry.NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if c.verifier == nil {
		return nil, errors.New("verifier is required but not set (use WithVerifier option)")
	}

	return c, nil
}

// WithVerifier sets the token verifier. This is a required option.
func WithVerifier(verifier Verifier) Option {
	return func(c *Core) error {
		if verifier == nil {
			return errors.New("verifier cannot be nil")
		}
		c.verifier = verifier
		return nil
	}
}

// WithCredentialsOptional lets requests without a token through with no
// identity. The default requires a token.
func WithCredentialsOptional(optional bool) Option {
	return func(c *Core) error {
		c.credentialsOptional = optional
		return nil
	}
}

// WithLogger sets the logger (default telemetry.NopLogger).
func WithLogger(logger telemetry.Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
