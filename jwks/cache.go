package jwks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/ghgc/bearerauth/internal/oidc"
	"github.com/ghgc/bearerauth/telemetry"
)

const (
	// DefaultCacheTTL is how long a fetched key set is served.
	DefaultCacheTTL = 3600 * time.Second

	// DefaultFetchTimeout bounds a single key set fetch.
	DefaultFetchTimeout = 10 * time.Second
)

// Cache holds a single key set and refreshes it at most once per TTL.
// It is safe for concurrent use.
type Cache struct {
	jwksURL      string
	issuerURL    *url.URL
	httpClient   *http.Client
	fetcher      Fetcher
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	logger  telemetry.Logger
	metrics telemetry.Metrics
	tracer  trace.Tracer

	mu    sync.RWMutex
	entry *cachedKeySet
	group singleflight.Group

	discoveryMu   sync.Mutex
	discoveredURL string
}

type cachedKeySet struct {
	url       string
	keySet    *KeySet
	expiresAt time.Time
}

// New builds a Cache. Either WithURL or WithIssuerURL is required.
func New(opts ...Option) (*Cache, error) {
	c := &Cache{
		ttl:          DefaultCacheTTL,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		logger:       telemetry.NopLogger{},
		metrics:      telemetry.NopMetrics{},
		tracer:       telemetry.DefaultTracer(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if c.jwksURL == "" && c.issuerURL == nil {
		return nil, errors.New("a JWKS URL or issuer URL is required (use WithURL or WithIssuerURL)")
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.fetchTimeout}
	}
	if c.fetcher == nil {
		c.fetcher = &HTTPFetcher{Client: c.httpClient}
	}

	return c, nil
}

// KeySet returns the key set for the configured URL, discovering the URL
// first if the cache was built with WithIssuerURL.
func (c *Cache) KeySet(ctx context.Context) (*KeySet, error) {
	jwksURL, err := c.resolveURL(ctx)
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, jwksURL)
}

// Get returns the cached key set for jwksURL, fetching it when the slot is
// empty, expired or holds another URL.
func (c *Cache) Get(ctx context.Context, jwksURL string) (*KeySet, error) {
	if ks, ok := c.lookup(jwksURL); ok {
		c.metrics.IncCounter(telemetry.MetricJWKSCache, map[string]string{"result": "hit"})
		return ks, nil
	}
	c.metrics.IncCounter(telemetry.MetricJWKSCache, map[string]string{"result": "miss"})

	// The shared fetch must not fail for every waiter because the first
	// caller went away; it is bounded by fetchTimeout instead.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(jwksURL, func() (any, error) {
		if ks, ok := c.lookup(jwksURL); ok {
			return ks, nil
		}
		return c.refresh(fetchCtx, jwksURL)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("joined in-flight JWKS fetch", "url", jwksURL)
	}
	return v.(*KeySet), nil
}

func (c *Cache) lookup(jwksURL string) (*KeySet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil || c.entry.url != jwksURL || !c.now().Before(c.entry.expiresAt) {
		return nil, false
	}
	return c.entry.keySet, true
}

func (c *Cache) refresh(ctx context.Context, jwksURL string) (_ *KeySet, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "jwks.fetch", trace.WithAttributes(attribute.String("jwks.url", jwksURL)))
	start := time.Now()
	defer func() {
		labels := map[string]string{"result": telemetry.Result(err)}
		c.metrics.IncCounter(telemetry.MetricJWKSFetch, labels)
		c.metrics.ObserveHistogram(telemetry.MetricJWKSFetchSeconds, time.Since(start).Seconds(), labels)
		telemetry.EndSpan(span, err)
	}()

	c.logger.Debug("fetching JWKS", "url", jwksURL)

	doc, fetchedAt, err := c.fetch(ctx, jwksURL)
	if err != nil {
		var fetchErr *FetchError
		var parseErr *ParseError
		if !errors.As(err, &fetchErr) && !errors.As(err, &parseErr) {
			err = &FetchError{URL: jwksURL, Err: err}
		}
		c.logger.Error("failed to fetch JWKS", "url", jwksURL, "error", err)
		return nil, err
	}

	ks, err := ParseKeySet(doc, fetchedAt)
	if err != nil {
		err = &ParseError{URL: jwksURL, Err: err}
		c.logger.Error("failed to parse JWKS", "url", jwksURL, "error", err)
		return nil, err
	}

	c.mu.Lock()
	c.entry = &cachedKeySet{url: jwksURL, keySet: ks, expiresAt: fetchedAt.Add(c.ttl)}
	c.mu.Unlock()

	c.logger.Info("JWKS refreshed", "url", jwksURL, "keys", ks.Len(), "ttl", c.ttl.String())
	return ks, nil
}

// fetch returns the document and the time it left the provider. Documents
// from an AgedFetcher keep their original fetch time, so a stored copy is
// never served past the TTL of the upstream fetch.
func (c *Cache) fetch(ctx context.Context, jwksURL string) ([]byte, time.Time, error) {
	now := c.now()
	aged, ok := c.fetcher.(AgedFetcher)
	if !ok {
		doc, err := c.fetcher.Fetch(ctx, jwksURL)
		return doc, c.now(), err
	}

	doc, fetchedAt, err := aged.FetchSince(ctx, jwksURL, now.Add(-c.ttl).Add(time.Nanosecond))
	if err != nil {
		return nil, time.Time{}, err
	}
	if fetchedAt.IsZero() || fetchedAt.After(now) {
		fetchedAt = now
	}
	return doc, fetchedAt, nil
}

// resolveURL returns the configured JWKS URL or discovers it. A failed
// discovery is retried on the next call.
func (c *Cache) resolveURL(ctx context.Context) (string, error) {
	if c.jwksURL != "" {
		return c.jwksURL, nil
	}

	c.discoveryMu.Lock()
	defer c.discoveryMu.Unlock()

	if c.discoveredURL != "" {
		return c.discoveredURL, nil
	}

	endpoints, err := oidc.GetWellKnownEndpointsFromIssuerURL(ctx, c.httpClient, *c.issuerURL, c.issuerURL.String())
	if err != nil {
		return "", &FetchError{URL: c.issuerURL.String(), Err: fmt.Errorf("failed to discover JWKS URI: %w", err)}
	}
	if _, err := url.Parse(endpoints.JWKSURI); err != nil {
		return "", &ParseError{URL: c.issuerURL.String(), Err: fmt.Errorf("could not parse JWKS URI from well-known endpoints: %w", err)}
	}

	c.discoveredURL = endpoints.JWKSURI
	c.logger.Info("discovered JWKS URI", "issuer", c.issuerURL.String(), "url", c.discoveredURL)
	return c.discoveredURL, nil
}
