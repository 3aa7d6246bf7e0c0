/*
Package oidc resolves a provider's JWKS location from its OpenID Connect
discovery document.

Cognito user pools publish the document at

	https://cognito-idp.<region>.amazonaws.com/<pool-id>/.well-known/openid-configuration

and the returned jwks_uri is what the key set cache fetches. The issuer in
the document must match the issuer that was asked for, so a misconfigured
or hostile discovery endpoint cannot point the cache at another provider's
keys.
*/
package oidc
