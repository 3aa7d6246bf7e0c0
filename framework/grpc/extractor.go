package bearergrpc

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/ghgc/bearerauth"
)

// TokenExtractor extracts a raw token from incoming gRPC metadata. A call
// without a token yields "" and no error.
type TokenExtractor func(ctx context.Context) (string, error)

// MetadataTokenExtractor reads "authorization: Bearer <token>".
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil
	}
	values := md.Get("authorization")
	if len(values) == 0 || values[0] == "" {
		return "", nil
	}

	parts := strings.Fields(values[0])
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", bearerauth.ErrMalformedAuthHeader
	}
	return parts[1], nil
}

// MetadataFieldTokenExtractor reads the raw token from field.
func MetadataFieldTokenExtractor(field string) TokenExtractor {
	return func(ctx context.Context) (string, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return "", nil
		}
		if values := md.Get(field); len(values) > 0 {
			return values[0], nil
		}
		return "", nil
	}
}
