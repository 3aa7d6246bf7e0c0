package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
)

const maxDiscoveryBytes = 1 << 20

// WellKnownEndpoints holds the fields of the discovery document this module uses.
type WellKnownEndpoints struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

// CognitoIssuer returns the issuer identifier of a Cognito user pool.
func CognitoIssuer(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}

// CognitoJWKSURL returns the well-known JWKS location of a Cognito user pool.
func CognitoJWKSURL(region, userPoolID string) string {
	return CognitoIssuer(region, userPoolID) + "/.well-known/jwks.json"
}

// GetWellKnownEndpointsFromIssuerURL fetches the discovery document below
// issuerURL and checks that its issuer equals expectedIssuer.
func GetWellKnownEndpointsFromIssuerURL(
	ctx context.Context,
	client *http.Client,
	issuerURL url.URL,
	expectedIssuer string,
) (*WellKnownEndpoints, error) {
	issuerURL.Path = path.Join(issuerURL.Path, ".well-known/openid-configuration")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, issuerURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request to get well-known endpoints: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch well-known endpoints from %s: %w", issuerURL.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, issuerURL.String())
	}

	var wkEndpoints WellKnownEndpoints
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDiscoveryBytes)).Decode(&wkEndpoints); err != nil {
		return nil, fmt.Errorf("failed to decode JSON from %s: %w", issuerURL.String(), err)
	}

	if wkEndpoints.Issuer == "" {
		return nil, errors.New("discovery document is missing required 'issuer' field")
	}
	if wkEndpoints.JWKSURI == "" {
		return nil, errors.New("discovery document is missing required 'jwks_uri' field")
	}
	if expectedIssuer != "" && wkEndpoints.Issuer != expectedIssuer {
		return nil, fmt.Errorf("issuer mismatch: expected %q, discovery document has %q", expectedIssuer, wkEndpoints.Issuer)
	}

	return &wkEndpoints, nil
}
