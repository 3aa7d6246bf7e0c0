/*
Package validator verifies RS256 bearer tokens against a JWKS key set and
turns them into normalized claims.

Verification runs in a fixed order: the protected header must name RS256
and a kid, the kid must be present in the current key set, the signature
must verify with that key, the payload must decode to a JSON object. The
claims are then normalized (see Normalize) and only afterwards checked for
exp, nbf and iat. Audience and issuer checks are opt-in.

Every failure in that sequence is reported as *InvalidTokenError, whose
message is the same for all causes. The underlying reason is available
through Cause for logging and is deliberately not reachable through
errors.Is or errors.As. Failures to obtain the key set are returned as the
*jwks.FetchError or *jwks.ParseError the key source produced.

# Usage

	cache, err := jwks.New(jwks.WithURL(jwksURL))
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(validator.WithKeySource(cache))
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := v.Verify(ctx, rawToken)
	if err != nil {
	    // errors.Is(err, validator.ErrInvalidToken) for a rejected token
	}

	subject, err := validator.ResolveIdentity(claims)

Audience enforcement uses the normalized claims, so a Cognito access
token carrying only client_id passes WithAudience(appClientID):

	v, err := validator.New(
	    validator.WithKeySource(cache),
	    validator.WithAudience(appClientID),
	    validator.WithIssuer("https://cognito-idp.us-west-2.amazonaws.com/us-west-2_abc"),
	)
*/
package validator
