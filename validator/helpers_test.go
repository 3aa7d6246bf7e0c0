package validator

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/stretchr/testify/require"

	"github.com/ghgc/bearerauth/jwks"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testKey struct {
	kid     string
	private jwk.Key
	public  jwk.Key
}

func newTestKey(t *testing.T, kid string) testKey {
	t.Helper()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	private, err := jwk.FromRaw(rsaKey)
	require.NoError(t, err)
	require.NoError(t, private.Set(jwk.KeyIDKey, kid))

	public, err := jwk.FromRaw(&rsaKey.PublicKey)
	require.NoError(t, err)
	require.NoError(t, public.Set(jwk.KeyIDKey, kid))
	require.NoError(t, public.Set(jwk.AlgorithmKey, jwa.RS256))

	return testKey{kid: kid, private: private, public: public}
}

func (k testKey) sign(t *testing.T, claims map[string]any) string {
	t.Helper()
	return signWith(t, jwa.RS256, k.private, k.kid, claims)
}

func signWith(t *testing.T, alg jwa.SignatureAlgorithm, key any, kid string, claims map[string]any) string {
	t.Helper()

	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	headers := jws.NewHeaders()
	require.NoError(t, headers.Set(jws.KeyIDKey, kid))
	require.NoError(t, headers.Set(jws.TypeKey, "JWT"))

	signed, err := jws.Sign(payload, jws.WithKey(alg, key, jws.WithProtectedHeaders(headers)))
	require.NoError(t, err)
	return string(signed)
}

func keySetOf(t *testing.T, keys ...testKey) *jwks.KeySet {
	t.Helper()

	set := jwk.NewSet()
	for _, k := range keys {
		require.NoError(t, set.AddKey(k.public))
	}
	return jwks.NewKeySet(set, testNow)
}

// baseClaims is a valid Cognito-style access token payload at testNow.
func baseClaims() map[string]any {
	return map[string]any{
		"sub":       "user-1",
		"client_id": "app-client",
		"token_use": "access",
		"iat":       testNow.Add(-time.Minute).Unix(),
		"exp":       testNow.Add(time.Hour).Unix(),
	}
}

func with(claims map[string]any, key string, value any) map[string]any {
	claims[key] = value
	return claims
}

func without(claims map[string]any, key string) map[string]any {
	delete(claims, key)
	return claims
}

type staticKeySource struct {
	keySet *jwks.KeySet
	err    error
	calls  int
}

func (s *staticKeySource) KeySet(context.Context) (*jwks.KeySet, error) {
	s.calls++
	return s.keySet, s.err
}
