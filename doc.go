/*
Package bearerauth authenticates HTTP requests carrying Cognito-issued
bearer tokens and exposes a login endpoint that exchanges credentials for
such tokens.

The pieces are layered the same way for every transport:

  - jwks.Cache fetches the user pool's signing keys and keeps them for an
    hour, with one fetch per expiry no matter how many requests arrive.
  - validator.Validator checks the RS256 signature and the temporal claims,
    after copying client_id into a missing aud.
  - core.Core resolves the subject and handles absent credentials.
  - Middleware (this package), framework/gin, framework/echo and
    framework/grpc adapt core.Core to their transport.

# Quick Start

	cache, err := jwks.New(jwks.WithURL("https://cognito-idp.us-west-2.amazonaws.com/" + poolID + "/.well-known/jwks.json"))
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(validator.WithKeySource(cache))
	if err != nil {
	    log.Fatal(err)
	}

	middleware, err := bearerauth.New(bearerauth.WithVerifier(v))
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/api/", middleware.CheckJWT(apiHandler))

Handlers behind the middleware read the caller with SubjectFromContext:

	func apiHandler(w http.ResponseWriter, r *http.Request) {
	    sub, ok := bearerauth.SubjectFromContext(r.Context())
	    ...
	}

# Error responses

DefaultErrorHandler answers every rejected token with 403 and
{"message":"Bad auth token"}, whatever the reason, and a request without
credentials with 403 and {"message":"Not authenticated"}. Failures to
obtain the key set are 500. Use WithErrorHandler to change this.

# Login

NewLoginHandler serves the token endpoint on top of a cognito.Exchanger.
Rejected credentials get 401 with the generic login failure message;
provider failures get 500.
*/
package bearerauth
