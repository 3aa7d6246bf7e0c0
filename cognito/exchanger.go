package cognito

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghgc/bearerauth/telemetry"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 10 * time.Second

const opAdminInitiateAuth = "AdminInitiateAuth"

// API is the subset of the Cognito client the Exchanger uses.
type API interface {
	AdminInitiateAuth(ctx context.Context, params *cognitoidentityprovider.AdminInitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminInitiateAuthOutput, error)
}

// ProviderConfig identifies the user pool and app client to authenticate
// against.
type ProviderConfig struct {
	Region     string
	UserPoolID string
	ClientID   string
}

func (c ProviderConfig) validate() error {
	if c.UserPoolID == "" {
		return errors.New("user pool ID is required")
	}
	if c.ClientID == "" {
		return errors.New("app client ID is required")
	}
	return nil
}

// Exchanger turns credentials into tokens. It is safe for concurrent use.
type Exchanger struct {
	api     API
	config  ProviderConfig
	timeout time.Duration

	logger  telemetry.Logger
	metrics telemetry.Metrics
	tracer  trace.Tracer
}

// New builds an Exchanger on top of api.
func New(api API, cfg ProviderConfig, opts ...Option) (*Exchanger, error) {
	if api == nil {
		return nil, errors.New("cognito API client is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Exchanger{
		api:     api,
		config:  cfg,
		timeout: DefaultTimeout,
		logger:  telemetry.NopLogger{},
		metrics: telemetry.NopMetrics{},
		tracer:  telemetry.DefaultTracer(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return e, nil
}

// NewFromConfig builds an Exchanger with a Cognito client resolved from the
// default AWS credential chain.
func NewFromConfig(ctx context.Context, cfg ProviderConfig, opts ...Option) (*Exchanger, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return New(cognitoidentityprovider.NewFromConfig(awsCfg), cfg, opts...)
}

// Exchange authenticates username and password. Rejected credentials yield
// a failed AuthResult and a nil error.
func (e *Exchanger) Exchange(ctx context.Context, username, password string) (_ *AuthResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ctx, span := e.tracer.Start(ctx, "cognito.exchange", trace.WithAttributes(
		attribute.String("cognito.user_pool_id", e.config.UserPoolID),
		attribute.String("cognito.client_id", e.config.ClientID),
	))
	result := "ok"
	defer func() {
		if err != nil {
			result = "error"
		}
		e.metrics.IncCounter(telemetry.MetricExchange, map[string]string{"result": result})
		telemetry.EndSpan(span, err)
	}()

	out, err := e.api.AdminInitiateAuth(ctx, &cognitoidentityprovider.AdminInitiateAuthInput{
		UserPoolId: aws.String(e.config.UserPoolID),
		ClientId:   aws.String(e.config.ClientID),
		AuthFlow:   types.AuthFlowTypeAdminUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		var notAuthorized *types.NotAuthorizedException
		if errors.As(err, &notAuthorized) {
			result = "rejected"
			e.logger.Info("provider rejected credentials", "reason", notAuthorized.ErrorMessage())
			return loginFailed(), nil
		}
		e.logger.Error("credential exchange failed", "error", err)
		return nil, &ProviderError{Op: opAdminInitiateAuth, Err: err}
	}

	auth := out.AuthenticationResult
	if auth == nil {
		err = &ProviderError{
			Op:  opAdminInitiateAuth,
			Err: fmt.Errorf("%w: %s", ErrChallengeRequired, out.ChallengeName),
		}
		e.logger.Error("credential exchange returned no tokens", "challenge", string(out.ChallengeName))
		return nil, err
	}

	return &AuthResult{
		AccessToken:  aws.ToString(auth.AccessToken),
		IDToken:      aws.ToString(auth.IdToken),
		RefreshToken: aws.ToString(auth.RefreshToken),
		TokenType:    aws.ToString(auth.TokenType),
		ExpiresIn:    auth.ExpiresIn,
	}, nil
}
