package validator

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/ghgc/bearerauth/telemetry"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithKeySource sets where the key set comes from. This is a required option.
func WithKeySource(source KeySource) Option {
	return func(v *Validator) error {
		if source == nil {
			return errors.New("key source cannot be nil")
		}
		v.keySource = source
		return nil
	}
}

// WithAudience enables audience enforcement. The normalized aud claim must
// contain at least one of audiences. Without this option aud is not checked.
func WithAudience(audiences ...string) Option {
	return func(v *Validator) error {
		if len(audiences) == 0 {
			return errors.New("audience cannot be empty")
		}
		for i, aud := range audiences {
			if aud == "" {
				return fmt.Errorf("audience at index %d cannot be empty", i)
			}
		}
		v.audience = audiences
		return nil
	}
}

// WithIssuer enables issuer enforcement.
func WithIssuer(issuerURL string) Option {
	return func(v *Validator) error {
		if issuerURL == "" {
			return errors.New("issuer cannot be empty")
		}
		if _, err := url.Parse(issuerURL); err != nil {
			return fmt.Errorf("invalid issuer URL: %w", err)
		}
		v.issuer = issuerURL
		return nil
	}
}

// WithAllowedClockSkew sets the tolerance applied to exp, nbf and iat.
// The default is no skew.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithClock overrides time.Now for temporal claim checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}

// WithLogger sets the logger (default telemetry.NopLogger).
func WithLogger(logger telemetry.Logger) Option {
	return func(v *Validator) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		v.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink (default telemetry.NopMetrics).
func WithMetrics(metrics telemetry.Metrics) Option {
	return func(v *Validator) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		v.metrics = metrics
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer (default telemetry.DefaultTracer).
func WithTracer(tracer trace.Tracer) Option {
	return func(v *Validator) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		v.tracer = tracer
		return nil
	}
}
