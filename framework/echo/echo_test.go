package bearerecho

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghgc/bearerauth/core"
	"github.com/ghgc/bearerauth/jwks"
	"github.com/ghgc/bearerauth/validator"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (validator.Claims, error) {
	switch token {
	case "good":
		return validator.Claims{"sub": "user-1"}, nil
	case "no-subject":
		return validator.Claims{"client_id": "app"}, nil
	case "jwks-down":
		return nil, &jwks.ParseError{URL: "https://example.com/jwks.json"}
	default:
		return nil, &validator.InvalidTokenError{}
	}
}

func newServer(t *testing.T, opts ...Option) *echo.Echo {
	t.Helper()

	c, err := core.New(core.WithVerifier(stubVerifier{}))
	require.NoError(t, err)

	e := echo.New()
	e.Use(New(c, opts...))
	e.GET("/whoami", func(ctx echo.Context) error {
		sub := "anonymous"
		if identity, ok := GetIdentity(ctx, ""); ok {
			sub = identity.Subject
		}
		return ctx.JSON(http.StatusOK, map[string]string{"sub": sub})
	})
	return e
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name           string
		opts           []Option
		authorization  string
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "valid token",
			authorization:  "Bearer good",
			wantStatusCode: http.StatusOK,
			wantBody:       `{"sub":"user-1"}`,
		},
		{
			name:           "invalid token",
			authorization:  "Bearer forged",
			wantStatusCode: http.StatusForbidden,
			wantBody:       `{"message":"Bad auth token"}`,
		},
		{
			name:           "token without subject",
			authorization:  "Bearer no-subject",
			wantStatusCode: http.StatusForbidden,
			wantBody:       `{"message":"Bad auth token"}`,
		},
		{
			name:           "missing token",
			wantStatusCode: http.StatusForbidden,
			wantBody:       `{"message":"Not authenticated"}`,
		},
		{
			name:           "key set failure",
			authorization:  "Bearer jwks-down",
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       `{"message":"Something went wrong while checking the JWT."}`,
		},
		{
			name:           "skipped request",
			opts:           []Option{WithSkipper(func(echo.Context) bool { return true })},
			wantStatusCode: http.StatusOK,
			wantBody:       `{"sub":"anonymous"}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			e := newServer(t, testCase.opts...)

			request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if testCase.authorization != "" {
				request.Header.Set("Authorization", testCase.authorization)
			}
			recorder := httptest.NewRecorder()
			e.ServeHTTP(recorder, request)

			assert.Equal(t, testCase.wantStatusCode, recorder.Code)
			assert.JSONEq(t, testCase.wantBody, recorder.Body.String())
		})
	}
}

func TestGetIdentity_CustomKey(t *testing.T) {
	e := echo.New()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := GetIdentity(ctx, "caller")
	assert.False(t, ok)

	ctx.Set("caller", &core.Identity{Subject: "user-1"})
	identity, ok := GetIdentity(ctx, "caller")
	require.True(t, ok)
	assert.Equal(t, "user-1", identity.Subject)
}
