package jwks

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch matches every *FetchError.
	ErrFetch = errors.New("could not fetch JWKS")

	// ErrParse matches every *ParseError.
	ErrParse = errors.New("could not parse JWKS")
)

// FetchError reports that the key set endpoint was unreachable, timed out
// or answered with a non-success status.
type FetchError struct {
	URL string
	// StatusCode is zero when no response was received.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s from %s: unexpected status %d", ErrFetch, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s from %s: %v", ErrFetch, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// ParseError reports that the response body was not a usable key set.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s from %s: %v", ErrParse, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
