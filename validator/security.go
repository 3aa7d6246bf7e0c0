package validator

import (
	"errors"
	"strings"
)

// maxTokenSize rejects oversized tokens before any decoding. Cognito tokens
// are a few KiB.
const maxTokenSize = 16 << 10

var errMalformedToken = errors.New("token is not in JWS compact serialization")

// validateTokenFormat cheaply rejects input that cannot be a compact JWS
// before it reaches the parser.
func validateTokenFormat(raw string) error {
	if raw == "" {
		return errors.New("token is empty")
	}
	if len(raw) > maxTokenSize {
		return errors.New("token exceeds maximum size")
	}
	if strings.Count(raw, ".") != 2 {
		return errMalformedToken
	}
	return nil
}
