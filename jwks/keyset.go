package jwks

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// KeySet is an immutable view of a fetched JSON Web Key Set.
type KeySet struct {
	set       jwk.Set
	fetchedAt time.Time
}

// NewKeySet wraps set. The caller must not modify set afterwards.
func NewKeySet(set jwk.Set, fetchedAt time.Time) *KeySet {
	return &KeySet{set: set, fetchedAt: fetchedAt}
}

// ParseKeySet parses a JWKS document. A document without keys is rejected
// since it could never verify a token.
func ParseKeySet(doc []byte, fetchedAt time.Time) (*KeySet, error) {
	set, err := jwk.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("could not parse key set: %w", err)
	}
	if set.Len() == 0 {
		return nil, errors.New("key set contains no keys")
	}
	return NewKeySet(set, fetchedAt), nil
}

// LookupKeyID returns the key with the given kid.
func (ks *KeySet) LookupKeyID(kid string) (jwk.Key, bool) {
	if ks == nil || ks.set == nil || kid == "" {
		return nil, false
	}
	return ks.set.LookupKeyID(kid)
}

// Len returns the number of keys in the set.
func (ks *KeySet) Len() int {
	if ks == nil || ks.set == nil {
		return 0
	}
	return ks.set.Len()
}

// FetchedAt is when the document was retrieved from the provider.
func (ks *KeySet) FetchedAt() time.Time {
	return ks.fetchedAt
}
