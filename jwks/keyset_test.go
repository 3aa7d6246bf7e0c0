package jwks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeySet(t *testing.T) {
	fetchedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ks, err := ParseKeySet(generateJWKS(t, "kid-1", "kid-2"), fetchedAt)
	require.NoError(t, err)

	assert.Equal(t, 2, ks.Len())
	assert.Equal(t, fetchedAt, ks.FetchedAt())

	key, ok := ks.LookupKeyID("kid-2")
	require.True(t, ok)
	assert.Equal(t, "kid-2", key.KeyID())

	_, ok = ks.LookupKeyID("kid-3")
	assert.False(t, ok)

	_, ok = ks.LookupKeyID("")
	assert.False(t, ok)
}

func TestKeySet_Nil(t *testing.T) {
	var ks *KeySet

	assert.Equal(t, 0, ks.Len())
	_, ok := ks.LookupKeyID("kid-1")
	assert.False(t, ok)
}
