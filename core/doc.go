/*
Package core turns a raw bearer token into the caller's Identity,
independently of the transport it arrived on.

Adapters (net/http, gin, echo, gRPC) extract the token, call
Core.CheckToken and store the resulting Identity in the request context:

	┌─────────────────────────────────────────────┐
	│  Transport adapters (net/http, gin, echo,   │
	│  gRPC): extract token, write responses      │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│  Core: missing/optional credentials,        │
	│  verification, identity resolution          │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│  validator.Validator backed by jwks.Cache   │
	└─────────────────────────────────────────────┘

# Usage

	c, err := core.New(core.WithVerifier(v))
	if err != nil {
	    log.Fatal(err)
	}

	identity, err := c.CheckToken(ctx, token)
	if err != nil {
	    switch core.Classify(err) {
	    case core.ErrorCodeInternal:
	        // key set or other infrastructure failure
	    default:
	        // reject the request
	    }
	}
	ctx = core.SetIdentity(ctx, identity)

Downstream code reads it back with GetIdentity.
*/
package core
