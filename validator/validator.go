package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghgc/bearerauth/jwks"
	"github.com/ghgc/bearerauth/telemetry"
)

// SignatureAlgorithm is the only algorithm tokens may be signed with.
const SignatureAlgorithm = jwa.RS256

// KeySource supplies the key set tokens are verified against.
// *jwks.Cache implements it.
type KeySource interface {
	KeySet(ctx context.Context) (*jwks.KeySet, error)
}

// Validator verifies bearer tokens. It is safe for concurrent use.
type Validator struct {
	keySource        KeySource  // Required.
	audience         []string   // Optional.
	issuer           string     // Optional.
	allowedClockSkew time.Duration
	now              func() time.Time

	logger  telemetry.Logger
	metrics telemetry.Metrics
	tracer  trace.Tracer
}

// New sets up a Validator. WithKeySource is required.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		now:     time.Now,
		logger:  telemetry.NopLogger{},
		metrics: telemetry.NopMetrics{},
		tracer:  telemetry.DefaultTracer(),
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if v.keySource == nil {
		return nil, errors.New("a key source is required (use WithKeySource)")
	}

	return v, nil
}

// Verify fetches the current key set and verifies raw against it. Key set
// failures are returned unchanged; token failures are *InvalidTokenError.
func (v *Validator) Verify(ctx context.Context, raw string) (_ Claims, err error) {
	ctx, span := v.tracer.Start(ctx, "validator.verify")
	start := time.Now()
	defer func() {
		result := "ok"
		switch {
		case errors.Is(err, ErrInvalidToken):
			result = "invalid"
		case err != nil:
			result = "error"
		}
		labels := map[string]string{"result": result}
		v.metrics.IncCounter(telemetry.MetricTokenVerify, labels)
		v.metrics.ObserveHistogram(telemetry.MetricTokenVerifySeconds, time.Since(start).Seconds(), labels)
		telemetry.EndSpan(span, err)
	}()

	ks, err := v.keySource.KeySet(ctx)
	if err != nil {
		v.logger.Error("could not obtain key set", "error", err)
		return nil, err
	}

	claims, err := v.VerifyWithKeySet(raw, ks)
	if err != nil {
		var invalid *InvalidTokenError
		if errors.As(err, &invalid) {
			v.logger.Warn("rejected bearer token", "cause", invalid.Cause())
		}
		return nil, err
	}
	return claims, nil
}

// VerifyWithKeySet verifies raw against ks without any I/O.
func (v *Validator) VerifyWithKeySet(raw string, ks *jwks.KeySet) (Claims, error) {
	claims, err := v.verify(raw, ks)
	if err != nil {
		return nil, newInvalidTokenError(err)
	}
	return claims, nil
}

func (v *Validator) verify(raw string, ks *jwks.KeySet) (Claims, error) {
	if err := validateTokenFormat(raw); err != nil {
		return nil, err
	}

	msg, err := jws.Parse([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("could not parse the token: %w", err)
	}
	signatures := msg.Signatures()
	if len(signatures) != 1 {
		return nil, fmt.Errorf("expected one signature, got %d", len(signatures))
	}

	headers := signatures[0].ProtectedHeaders()
	if alg := headers.Algorithm(); alg != SignatureAlgorithm {
		return nil, fmt.Errorf("expected %q signing algorithm but token specified %q", SignatureAlgorithm, alg)
	}

	kid := headers.KeyID()
	key, ok := ks.LookupKeyID(kid)
	if !ok {
		return nil, fmt.Errorf("no key found for kid %q", kid)
	}

	payload, err := jws.Verify([]byte(raw), jws.WithKey(SignatureAlgorithm, key))
	if err != nil {
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}

	// Numbers stay json.Number so large integer claims keep their precision.
	var claims Claims
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("could not decode token claims: %w", err)
	}
	if claims == nil {
		return nil, errors.New("token claims are not a JSON object")
	}

	claims = Normalize(claims)

	if err := v.validateClaims(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// validateClaims checks the registered claims of already normalized claims.
func (v *Validator) validateClaims(claims Claims) error {
	encoded, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("could not encode claims: %w", err)
	}

	token := jwt.New()
	if err := json.Unmarshal(encoded, token); err != nil {
		return fmt.Errorf("registered claims are malformed: %w", err)
	}

	opts := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(v.now)),
		jwt.WithAcceptableSkew(v.allowedClockSkew),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
	}
	if len(v.audience) > 0 {
		opts = append(opts, jwt.WithValidator(audienceValidator(v.audience)))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	if err := jwt.Validate(token, opts...); err != nil {
		return fmt.Errorf("expected claims not validated: %w", err)
	}
	return nil
}

// audienceValidator accepts a token whose aud contains any of expected.
func audienceValidator(expected []string) jwt.Validator {
	return jwt.ValidatorFunc(func(_ context.Context, token jwt.Token) jwt.ValidationError {
		for _, aud := range token.Audience() {
			for _, want := range expected {
				if aud == want {
					return nil
				}
			}
		}
		return jwt.ErrInvalidAudience()
	})
}
