package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghgc/bearerauth/jwks"
	"github.com/ghgc/bearerauth/validator"
)

type mockVerifier struct {
	verifyFunc func(ctx context.Context, token string) (validator.Claims, error)
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (validator.Claims, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

type mockLogger struct {
	debugCalls []logCall
	infoCalls  []logCall
	warnCalls  []logCall
	errorCalls []logCall
}

type logCall struct {
	msg  string
	args []any
}

func (m *mockLogger) Debug(msg string, args ...any) {
	m.debugCalls = append(m.debugCalls, logCall{msg, args})
}

func (m *mockLogger) Info(msg string, args ...any) {
	m.infoCalls = append(m.infoCalls, logCall{msg, args})
}

func (m *mockLogger) Warn(msg string, args ...any) {
	m.warnCalls = append(m.warnCalls, logCall{msg, args})
}

func (m *mockLogger) Error(msg string, args ...any) {
	m.errorCalls = append(m.errorCalls, logCall{msg, args})
}

func claimsVerifier(claims validator.Claims) *mockVerifier {
	return &mockVerifier{
		verifyFunc: func(context.Context, string) (validator.Claims, error) {
			return claims, nil
		},
	}
}

func TestNew(t *testing.T) {
	verifier := claimsVerifier(validator.Claims{"sub": "user123"})

	t.Run("successful creation with required options", func(t *testing.T) {
		core, err := New(WithVerifier(verifier))
		require.NoError(t, err)
		assert.NotNil(t, core)
		assert.False(t, core.credentialsOptional)
	})

	t.Run("successful creation with all options", func(t *testing.T) {
		logger := &mockLogger{}
		core, err := New(
			WithVerifier(verifier),
			WithCredentialsOptional(true),
			WithLogger(logger),
		)
		require.NoError(t, err)
		assert.True(t, core.credentialsOptional)
		assert.Same(t, logger, core.logger)
	})

	t.Run("error when verifier is missing", func(t *testing.T) {
		core, err := New()
		assert.Error(t, err)
		assert.Nil(t, core)
		assert.Contains(t, err.Error(), "verifier is required")
	})

	t.Run("error when verifier is nil", func(t *testing.T) {
		core, err := New(WithVerifier(nil))
		assert.Error(t, err)
		assert.Nil(t, core)
		assert.Contains(t, err.Error(), "verifier cannot be nil")
	})

	t.Run("error when logger is nil", func(t *testing.T) {
		core, err := New(WithVerifier(verifier), WithLogger(nil))
		assert.Error(t, err)
		assert.Nil(t, core)
		assert.Contains(t, err.Error(), "logger cannot be nil")
	})
}

func TestCore_CheckToken(t *testing.T) {
	t.Run("successful verification", func(t *testing.T) {
		claims := validator.Claims{"sub": "user123", "client_id": "app", "aud": "app"}
		core, err := New(WithVerifier(claimsVerifier(claims)))
		require.NoError(t, err)

		identity, err := core.CheckToken(context.Background(), "valid-token")
		require.NoError(t, err)
		assert.Equal(t, &Identity{Subject: "user123", Claims: claims}, identity)
	})

	t.Run("verification error is returned unchanged", func(t *testing.T) {
		for name, expectedErr := range map[string]error{
			"invalid token": &validator.InvalidTokenError{},
			"fetch error":   &jwks.FetchError{URL: "https://example.com", StatusCode: 500},
		} {
			t.Run(name, func(t *testing.T) {
				core, err := New(WithVerifier(&mockVerifier{
					verifyFunc: func(context.Context, string) (validator.Claims, error) {
						return nil, expectedErr
					},
				}))
				require.NoError(t, err)

				identity, err := core.CheckToken(context.Background(), "token")
				assert.Nil(t, identity)
				assert.Equal(t, expectedErr, err)
			})
		}
	})

	t.Run("token without subject", func(t *testing.T) {
		logger := &mockLogger{}
		core, err := New(WithVerifier(claimsVerifier(validator.Claims{"client_id": "app"})), WithLogger(logger))
		require.NoError(t, err)

		identity, err := core.CheckToken(context.Background(), "token")
		assert.Nil(t, identity)
		assert.True(t, errors.Is(err, validator.ErrMissingSubject))
		assert.Len(t, logger.warnCalls, 1)
	})

	t.Run("empty token with credentials required", func(t *testing.T) {
		core, err := New(
			WithVerifier(&mockVerifier{
				verifyFunc: func(context.Context, string) (validator.Claims, error) {
					t.Fatal("verifier should not be called with empty token")
					return nil, nil
				},
			}),
			WithCredentialsOptional(false),
		)
		require.NoError(t, err)

		identity, err := core.CheckToken(context.Background(), "")
		assert.Nil(t, identity)
		assert.Equal(t, ErrJWTMissing, err)
	})

	t.Run("empty token with credentials optional", func(t *testing.T) {
		core, err := New(
			WithVerifier(&mockVerifier{}),
			WithCredentialsOptional(true),
		)
		require.NoError(t, err)

		identity, err := core.CheckToken(context.Background(), "")
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("logger integration on success", func(t *testing.T) {
		logger := &mockLogger{}
		core, err := New(WithVerifier(claimsVerifier(validator.Claims{"sub": "user123"})), WithLogger(logger))
		require.NoError(t, err)

		_, err = core.CheckToken(context.Background(), "valid-token")
		require.NoError(t, err)

		require.Len(t, logger.debugCalls, 1)
		assert.Equal(t, "Token verified", logger.debugCalls[0].msg)
	})
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		err       error
		code      string
		rejection bool
	}{
		{err: ErrJWTMissing, code: ErrorCodeTokenMissing, rejection: true},
		{err: &validator.InvalidTokenError{}, code: ErrorCodeInvalidToken, rejection: true},
		{err: &validator.MissingSubjectError{}, code: ErrorCodeMissingSubject, rejection: true},
		{err: &jwks.ParseError{URL: "https://example.com"}, code: ErrorCodeInternal, rejection: false},
		{err: errors.New("boom"), code: ErrorCodeInternal, rejection: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.code, func(t *testing.T) {
			assert.Equal(t, testCase.code, Classify(testCase.err))
			assert.Equal(t, testCase.rejection, IsRejection(testCase.err))
		})
	}

	assert.False(t, IsRejection(nil))
}
