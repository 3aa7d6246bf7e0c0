package bearergin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghgc/bearerauth"
	"github.com/ghgc/bearerauth/core"
	"github.com/ghgc/bearerauth/jwks"
	"github.com/ghgc/bearerauth/validator"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (validator.Claims, error) {
	switch token {
	case "good":
		return validator.Claims{"sub": "user-1"}, nil
	case "jwks-down":
		return nil, &jwks.FetchError{URL: "https://example.com/jwks.json", StatusCode: http.StatusServiceUnavailable}
	default:
		return nil, &validator.InvalidTokenError{}
	}
}

func newRouter(t *testing.T, coreOpts []core.Option, opts ...Option) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := core.New(append([]core.Option{core.WithVerifier(stubVerifier{})}, coreOpts...)...)
	require.NoError(t, err)

	router := gin.New()
	router.Use(New(c, opts...))
	router.GET("/whoami", func(ctx *gin.Context) {
		sub := "anonymous"
		if identity, err := GetIdentity(ctx); err == nil {
			sub = identity.Subject
			fromRequest, ok := bearerauth.SubjectFromContext(ctx.Request.Context())
			assert.True(t, ok)
			assert.Equal(t, sub, fromRequest)
		}
		ctx.JSON(http.StatusOK, gin.H{"sub": sub})
	})
	return router
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name           string
		coreOpts       []core.Option
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
			name:           "malformed header",
			authorization:  "Token good",
			wantStatusCode: http.StatusForbidden,
			wantBody:       `{"message":"Bad auth token"}`,
		},
		{
			name:           "missing token",
			wantStatusCode: http.StatusForbidden,
			wantBody:       `{"message":"Not authenticated"}`,
		},
		{
			name:           "missing token with optional credentials",
			coreOpts:       []core.Option{core.WithCredentialsOptional(true)},
			wantStatusCode: http.StatusOK,
			wantBody:       `{"sub":"anonymous"}`,
		},
		{
			name:           "key set failure",
			authorization:  "Bearer jwks-down",
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       `{"message":"Something went wrong while checking the JWT."}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			router := newRouter(t, testCase.coreOpts)

			request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if testCase.authorization != "" {
				request.Header.Set("Authorization", testCase.authorization)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, testCase.wantStatusCode, recorder.Code)
			assert.JSONEq(t, testCase.wantBody, recorder.Body.String())
		})
	}
}

func TestOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, err := core.New(core.WithVerifier(stubVerifier{}))
	require.NoError(t, err)

	router := gin.New()
	router.Use(New(c,
		WithIdentityKey("caller"),
		WithTokenExtractor(bearerauth.CookieTokenExtractor("access_token")),
		WithErrorHandler(func(ctx *gin.Context, err error) {
			ctx.AbortWithStatus(http.StatusUnauthorized)
		}),
	))
	router.GET("/whoami", func(ctx *gin.Context) {
		identity, err := GetIdentityWithKey(ctx, "caller")
		require.NoError(t, err)
		ctx.String(http.StatusOK, identity.Subject)
	})

	request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	request.AddCookie(&http.Cookie{Name: "access_token", Value: "good"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "user-1", recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
