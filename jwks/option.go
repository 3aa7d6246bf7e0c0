package jwks

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/ghgc/bearerauth/telemetry"
)

// Option configures a Cache.
type Option func(*Cache) error

// WithURL sets the JWKS URL to fetch.
func WithURL(jwksURL string) Option {
	return func(c *Cache) error {
		u, err := url.Parse(jwksURL)
		if err != nil {
			return err
		}
		if u.Scheme == "" || u.Host == "" {
			return errors.New("JWKS URL must be absolute")
		}
		c.jwksURL = jwksURL
		return nil
	}
}

// WithIssuerURL makes the cache discover the JWKS URL from the issuer's
// .well-known/openid-configuration on first use. WithURL takes precedence.
func WithIssuerURL(issuerURL *url.URL) Option {
	return func(c *Cache) error {
		if issuerURL == nil {
			return errors.New("issuer URL cannot be nil")
		}
		c.issuerURL = issuerURL
		return nil
	}
}

// WithCacheTTL sets how long a key set is served. Zero keeps DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Cache) error {
		if ttl < 0 {
			return errors.New("cache TTL cannot be negative")
		}
		if ttl == 0 {
			ttl = DefaultCacheTTL
		}
		c.ttl = ttl
		return nil
	}
}

// WithFetchTimeout bounds each fetch. Zero keeps DefaultFetchTimeout.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(c *Cache) error {
		if timeout < 0 {
			return errors.New("fetch timeout cannot be negative")
		}
		if timeout == 0 {
			timeout = DefaultFetchTimeout
		}
		c.fetchTimeout = timeout
		return nil
	}
}

// WithHTTPClient sets the client used for discovery and the default fetcher.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) error {
		if client == nil {
			return errors.New("HTTP client cannot be nil")
		}
		c.httpClient = client
		return nil
	}
}

// WithFetcher replaces the HTTP fetcher, e.g. with a RedisFetcher.
func WithFetcher(f Fetcher) Option {
	return func(c *Cache) error {
		if f == nil {
			return errors.New("fetcher cannot be nil")
		}
		c.fetcher = f
		return nil
	}
}

// WithClock overrides time.Now for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithLogger sets the logger (default telemetry.NopLogger).
func WithLogger(logger telemetry.Logger) Option {
	return func(c *Cache) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink (default telemetry.NopMetrics).
func WithMetrics(metrics telemetry.Metrics) Option {
	return func(c *Cache) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		c.metrics = metrics
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer (default telemetry.DefaultTracer).
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Cache) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		c.tracer = tracer
		return nil
	}
}
