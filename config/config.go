// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/ghgc/bearerauth/internal/oidc"
)

// Settings holds everything cmd/authgate needs. Fields are populated from
// environment variables by envdecode; defaults live in the struct tags.
type Settings struct {
	// JWKSURL overrides every other way of locating the key set.
	JWKSURL string `env:"JWKS_URL"`
	// IssuerURL enables OIDC discovery of the key set location.
	IssuerURL string `env:"ISSUER_URL"`

	Region     string `env:"AWS_REGION,default=us-west-2"`
	UserPoolID string `env:"USERPOOL_ID"`
	ClientID   string `env:"CLIENT_ID"`

	JWKSCacheTTL     time.Duration `env:"JWKS_CACHE_TTL,default=1h"`
	JWKSFetchTimeout time.Duration `env:"JWKS_FETCH_TIMEOUT,default=10s"`
	ProviderTimeout  time.Duration `env:"PROVIDER_TIMEOUT,default=10s"`

	RequireAudience bool          `env:"REQUIRE_AUDIENCE,default=false"`
	TokenAudience   string        `env:"TOKEN_AUDIENCE"`
	TokenIssuer     string        `env:"TOKEN_ISSUER"`
	ClockSkew       time.Duration `env:"CLOCK_SKEW,default=0s"`

	RedisAddr      string `env:"REDIS_ADDR"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX,default=bearerauth:jwks:"`

	ListenAddr string `env:"LISTEN_ADDR,default=:8000"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`
	LogFormat  string `env:"LOG_FORMAT,default=json"`
}

// Load reads the given dotenv files, ".env" when none are named, and then
// decodes the environment. A value that does not parse is an error. Missing files are ignored and variables already
// set in the environment win over file values.
func Load(files ...string) (*Settings, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load %s: %w", f, err)
		}
	}

	var s Settings
	if err := envdecode.StrictDecode(&s); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("could not decode environment: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that the settings describe a usable service.
func (s *Settings) Validate() error {
	if s.JWKSURL == "" && s.IssuerURL == "" && s.UserPoolID == "" {
		return errors.New("one of JWKS_URL, ISSUER_URL or USERPOOL_ID is required")
	}
	for name, raw := range map[string]string{"JWKS_URL": s.JWKSURL, "ISSUER_URL": s.IssuerURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if s.JWKSCacheTTL <= 0 {
		return errors.New("JWKS_CACHE_TTL must be positive")
	}
	if s.JWKSFetchTimeout <= 0 {
		return errors.New("JWKS_FETCH_TIMEOUT must be positive")
	}
	if s.ProviderTimeout <= 0 {
		return errors.New("PROVIDER_TIMEOUT must be positive")
	}
	if s.ClockSkew < 0 {
		return errors.New("CLOCK_SKEW cannot be negative")
	}
	if s.RequireAudience && len(s.Audiences()) == 0 {
		return errors.New("REQUIRE_AUDIENCE needs TOKEN_AUDIENCE or CLIENT_ID")
	}
	switch s.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", s.LogFormat)
	}
	return nil
}

// ResolvedJWKSURL returns JWKS_URL, or the Cognito location derived from
// region and user pool. It is empty when the URL has to be discovered from
// ISSUER_URL.
func (s *Settings) ResolvedJWKSURL() string {
	if s.JWKSURL != "" {
		return s.JWKSURL
	}
	if s.UserPoolID != "" && s.IssuerURL == "" {
		return oidc.CognitoJWKSURL(s.Region, s.UserPoolID)
	}
	return ""
}

// Audiences returns the audiences tokens must carry, or nil when audience
// enforcement is off.
func (s *Settings) Audiences() []string {
	if !s.RequireAudience {
		return nil
	}
	if s.TokenAudience != "" {
		return []string{s.TokenAudience}
	}
	if s.ClientID != "" {
		return []string{s.ClientID}
	}
	return nil
}

// ExchangeEnabled reports whether the credential exchange endpoint can be served.
func (s *Settings) ExchangeEnabled() bool {
	return s.UserPoolID != "" && s.ClientID != ""
}
