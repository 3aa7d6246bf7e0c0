package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghgc/bearerauth/telemetry"
)

// DefaultRedisKeyPrefix namespaces the documents RedisFetcher stores.
const DefaultRedisKeyPrefix = "bearerauth:jwks:"

// RedisFetcher keeps raw JWKS documents in Redis, stamped with their
// upstream fetch time, so that several processes share one upstream fetch
// per TTL. Redis failures are logged and fall
// through to the wrapped Fetcher; they never fail a fetch on their own.
type RedisFetcher struct {
	client    redis.UniversalClient
	next      Fetcher
	ttl       time.Duration
	keyPrefix string
	now       func() time.Time
	logger    telemetry.Logger
}

// RedisOption configures a RedisFetcher.
type RedisOption func(*RedisFetcher)

// WithRedisTTL sets the Redis expiry of stored documents (default DefaultCacheTTL).
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(f *RedisFetcher) {
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

// WithRedisKeyPrefix sets the key prefix (default DefaultRedisKeyPrefix).
func WithRedisKeyPrefix(prefix string) RedisOption {
	return func(f *RedisFetcher) {
		if prefix != "" {
			f.keyPrefix = prefix
		}
	}
}

// WithRedisClock overrides time.Now for stamping stored documents.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(f *RedisFetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// WithRedisLogger sets the logger for Redis failures (default NopLogger).
func WithRedisLogger(logger telemetry.Logger) RedisOption {
	return func(f *RedisFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewRedisFetcher wraps next with a Redis-backed document store.
func NewRedisFetcher(client redis.UniversalClient, next Fetcher, opts ...RedisOption) *RedisFetcher {
	f := &RedisFetcher{
		client:    client,
		next:      next,
		ttl:       DefaultCacheTTL,
		keyPrefix: DefaultRedisKeyPrefix,
		now:       time.Now,
		logger:    telemetry.NopLogger{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements Fetcher.
func (f *RedisFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	doc, _, err := f.FetchSince(ctx, url, time.Time{})
	return doc, err
}

// storedDocument is the Redis value: the provider's document and the time it
// was fetched from the provider.
type storedDocument struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Document  json.RawMessage `json:"document"`
}

// FetchSince implements AgedFetcher. A stored document fetched before
// notBefore is ignored and replaced.
func (f *RedisFetcher) FetchSince(ctx context.Context, url string, notBefore time.Time) ([]byte, time.Time, error) {
	key := f.keyPrefix + url

	raw, err := f.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if stored, ok := f.decode(raw); !ok {
			f.logger.Warn("discarding unusable JWKS document from redis", "key", key)
		} else if stored.FetchedAt.Before(notBefore) {
			f.logger.Debug("discarding stale JWKS document from redis", "key", key, "fetched_at", stored.FetchedAt)
		} else {
			return stored.Document, stored.FetchedAt, nil
		}
	case errors.Is(err, redis.Nil):
	default:
		f.logger.Warn("redis lookup failed, fetching JWKS from provider", "key", key, "error", err)
	}

	doc, err := f.next.Fetch(ctx, url)
	if err != nil {
		return nil, time.Time{}, err
	}
	fetchedAt := f.now()

	// Only documents that parse are shared; a bad one stays local and is
	// reported by the cache.
	if _, parseErr := ParseKeySet(doc, fetchedAt); parseErr != nil {
		return doc, fetchedAt, nil
	}

	value, err := json.Marshal(storedDocument{FetchedAt: fetchedAt, Document: doc})
	if err != nil {
		return doc, fetchedAt, nil
	}
	if err := f.client.Set(ctx, key, value, f.ttl).Err(); err != nil {
		f.logger.Warn("failed to store JWKS document in redis", "key", key, "error", err)
	}
	return doc, fetchedAt, nil
}

func (f *RedisFetcher) decode(raw []byte) (storedDocument, bool) {
	var stored storedDocument
	if err := json.Unmarshal(raw, &stored); err != nil || stored.FetchedAt.IsZero() {
		return storedDocument{}, false
	}
	if _, err := ParseKeySet(stored.Document, stored.FetchedAt); err != nil {
		return storedDocument{}, false
	}
	return stored, true
}
