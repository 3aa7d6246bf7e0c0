package cognito

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/ghgc/bearerauth/telemetry"
)

// Option configures an Exchanger.
type Option func(*Exchanger) error

// WithTimeout bounds each provider call. Zero keeps DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Exchanger) error {
		if timeout < 0 {
			return errors.New("timeout cannot be negative")
		}
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		e.timeout = timeout
		return nil
	}
}

// WithLogger sets the logger (default telemetry.NopLogger).
func WithLogger(logger telemetry.Logger) Option {
	return func(e *Exchanger) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		e.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink (default telemetry.NopMetrics).
func WithMetrics(metrics telemetry.Metrics) Option {
	return func(e *Exchanger) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		e.metrics = metrics
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer (default telemetry.DefaultTracer).
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Exchanger) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		e.tracer = tracer
		return nil
	}
}
