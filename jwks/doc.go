/*
Package jwks fetches and caches the identity provider's JSON Web Key Set.

A Cache holds exactly one key set, keyed by the JWKS URL it was fetched
from. An entry is served while it is younger than the TTL (one hour by
default, never derived from response headers); after that the next caller
refetches it. Concurrent misses share a single in-flight fetch, so a burst
of requests arriving just after expiry produces one request to the
provider.

# Usage

	cache, err := jwks.New(
	    jwks.WithURL("https://cognito-idp.us-west-2.amazonaws.com/us-west-2_abc/.well-known/jwks.json"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	keySet, err := cache.KeySet(ctx)

Instead of a fixed URL the cache can discover it from the issuer's OpenID
Connect configuration:

	issuer, _ := url.Parse("https://cognito-idp.us-west-2.amazonaws.com/us-west-2_abc")
	cache, err := jwks.New(jwks.WithIssuerURL(issuer))

# Errors

Retrieval failures are reported as *FetchError (transport error, timeout,
non-2xx status) or *ParseError (body is not a usable key set). Neither
touches the cached entry, so the next call simply tries again.

# Sharing key sets between processes

RedisFetcher wraps another Fetcher and keeps the raw JWKS document in
Redis, so a fleet of processes hits the provider once per TTL rather than
once per process:

	fetcher := jwks.NewRedisFetcher(redisClient, &jwks.HTTPFetcher{Client: httpClient})
	cache, err := jwks.New(jwks.WithURL(jwksURL), jwks.WithFetcher(fetcher))
*/
package jwks
