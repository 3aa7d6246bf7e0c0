// Command authgate serves the token endpoint and a bearer-protected
// identity endpoint backed by a Cognito user pool.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ghgc/bearerauth"
	"github.com/ghgc/bearerauth/cognito"
	"github.com/ghgc/bearerauth/config"
	"github.com/ghgc/bearerauth/jwks"
	"github.com/ghgc/bearerauth/telemetry"
	"github.com/ghgc/bearerauth/validator"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger := telemetry.NewLogrusLogger(log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewPrometheusMetrics(registry)

	cache, closeCache, err := newKeySetCache(cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer closeCache()

	validatorOpts := []validator.Option{
		validator.WithKeySource(cache),
		validator.WithAllowedClockSkew(cfg.ClockSkew),
		validator.WithLogger(logger),
		validator.WithMetrics(metrics),
	}
	if audiences := cfg.Audiences(); len(audiences) > 0 {
		validatorOpts = append(validatorOpts, validator.WithAudience(audiences...))
	}
	if cfg.TokenIssuer != "" {
		validatorOpts = append(validatorOpts, validator.WithIssuer(cfg.TokenIssuer))
	}
	tokenValidator, err := validator.New(validatorOpts...)
	if err != nil {
		return fmt.Errorf("failed to set up the validator: %w", err)
	}

	middleware, err := bearerauth.New(
		bearerauth.WithVerifier(tokenValidator),
		bearerauth.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to set up the middleware: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("GET /whoami", middleware.CheckJWT(http.HandlerFunc(whoami)))

	if cfg.ExchangeEnabled() {
		exchanger, err := cognito.NewFromConfig(ctx,
			cognito.ProviderConfig{Region: cfg.Region, UserPoolID: cfg.UserPoolID, ClientID: cfg.ClientID},
			cognito.WithTimeout(cfg.ProviderTimeout),
			cognito.WithLogger(logger),
			cognito.WithMetrics(metrics),
		)
		if err != nil {
			return fmt.Errorf("failed to set up the credential exchange: %w", err)
		}
		mux.Handle("/token", bearerauth.NewLoginHandler(exchanger, bearerauth.WithLoginLogger(logger)))
	} else {
		log.Warn("USERPOOL_ID or CLIENT_ID not set, /token is disabled")
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("authgate listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info("authgate stopped")
	return nil
}

func newLogger(cfg *config.Settings) (*logrus.Logger, error) {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}

func newKeySetCache(cfg *config.Settings, logger telemetry.Logger, metrics telemetry.Metrics) (*jwks.Cache, func(), error) {
	opts := []jwks.Option{
		jwks.WithCacheTTL(cfg.JWKSCacheTTL),
		jwks.WithFetchTimeout(cfg.JWKSFetchTimeout),
		jwks.WithLogger(logger),
		jwks.WithMetrics(metrics),
	}

	if u := cfg.ResolvedJWKSURL(); u != "" {
		opts = append(opts, jwks.WithURL(u))
	} else {
		issuer, err := url.Parse(cfg.IssuerURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid ISSUER_URL: %w", err)
		}
		opts = append(opts, jwks.WithIssuerURL(issuer))
	}

	closeFn := func() {}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		upstream := &jwks.HTTPFetcher{Client: &http.Client{Timeout: cfg.JWKSFetchTimeout}}
		opts = append(opts, jwks.WithFetcher(jwks.NewRedisFetcher(client, upstream,
			jwks.WithRedisTTL(cfg.JWKSCacheTTL),
			jwks.WithRedisKeyPrefix(cfg.RedisKeyPrefix),
			jwks.WithRedisLogger(logger),
		)))
		closeFn = func() { _ = client.Close() }
	}

	cache, err := jwks.New(opts...)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to set up the key set cache: %w", err)
	}
	return cache, closeFn, nil
}

func whoami(w http.ResponseWriter, r *http.Request) {
	identity, ok := bearerauth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"username": identity.Subject,
		"claims":   identity.Claims,
	})
}
