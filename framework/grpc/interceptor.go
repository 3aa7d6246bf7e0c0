// Package bearergrpc adapts core.Core to gRPC servers.
package bearergrpc

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ghgc/bearerauth"
	"github.com/ghgc/bearerauth/core"
	"github.com/ghgc/bearerauth/telemetry"
)

// Interceptor authenticates unary and streaming calls.
type Interceptor struct {
	core           *core.Core
	tokenExtractor TokenExtractor
	excluded       func(method string) bool
	errorHandler   func(ctx context.Context, err error) error
	logger         telemetry.Logger
}

// New creates an Interceptor around c.
func New(c *core.Core, opts ...Option) *Interceptor {
	i := &Interceptor{
		core:           c,
		tokenExtractor: MetadataTokenExtractor,
		errorHandler:   DefaultErrorHandler,
		logger:         telemetry.NopLogger{},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// DefaultErrorHandler maps rejections to codes.Unauthenticated with the
// same messages the HTTP middleware uses and everything else to
// codes.Internal.
func DefaultErrorHandler(_ context.Context, err error) error {
	code, message := bearerauth.ResponseFor(err)
	if code == http.StatusInternalServerError {
		return status.Error(codes.Internal, message)
	}
	return status.Error(codes.Unauthenticated, message)
}

func (i *Interceptor) authenticate(ctx context.Context, method string) (context.Context, error) {
	if i.excluded != nil && i.excluded(method) {
		return ctx, nil
	}

	token, err := i.tokenExtractor(ctx)
	if err != nil {
		i.logger.Warn("failed to extract token", "method", method, "error", err)
		return nil, i.errorHandler(ctx, bearerauth.Rejection(fmt.Errorf("error extracting token: %w", err)))
	}

	identity, err := i.core.CheckToken(ctx, token)
	if err != nil {
		if !core.IsRejection(err) {
			i.logger.Error("could not authenticate call", "method", method, "error", err)
		}
		return nil, i.errorHandler(ctx, err)
	}
	if identity == nil {
		return ctx, nil
	}
	return core.SetIdentity(ctx, identity), nil
}

// UnaryServerInterceptor returns the unary interceptor.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		authCtx, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(authCtx, req)
	}
}

// StreamServerInterceptor returns the stream interceptor.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		authCtx, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: authCtx})
	}
}

type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// SubjectFromContext returns the authenticated subject of the call.
func SubjectFromContext(ctx context.Context) (string, bool) {
	return bearerauth.SubjectFromContext(ctx)
}
