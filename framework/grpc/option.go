package bearergrpc

import (
	"context"

	"github.com/ghgc/bearerauth/telemetry"
)

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithTokenExtractor replaces MetadataTokenExtractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *Interceptor) {
		if extractor != nil {
			i.tokenExtractor = extractor
		}
	}
}

// WithExcludedMethods skips authentication for the given full method names,
// e.g. "/grpc.health.v1.Health/Check".
func WithExcludedMethods(methods ...string) Option {
	excluded := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		excluded[m] = struct{}{}
	}
	return func(i *Interceptor) {
		i.excluded = func(method string) bool {
			_, ok := excluded[method]
			return ok
		}
	}
}

// WithErrorHandler replaces DefaultErrorHandler. The returned error is sent
// to the client.
func WithErrorHandler(handler func(ctx context.Context, err error) error) Option {
	return func(i *Interceptor) {
		if handler != nil {
			i.errorHandler = handler
		}
	}
}

// WithLogger sets the logger (default telemetry.NopLogger).
func WithLogger(logger telemetry.Logger) Option {
	return func(i *Interceptor) {
		if logger != nil {
			i.logger = logger
		}
	}
}
