package cognito

import (
	"errors"
	"fmt"
)

var (
	// ErrProvider matches every *ProviderError.
	ErrProvider = errors.New("identity provider request failed")

	// ErrChallengeRequired is wrapped when the provider answers with an auth
	// challenge (for example NEW_PASSWORD_REQUIRED) instead of tokens.
	ErrChallengeRequired = errors.New("provider requires an auth challenge")
)

// ProviderError is any failure of the provider call other than rejected
// credentials.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrProvider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }
