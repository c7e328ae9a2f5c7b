package access

import (
	"context"
	"log/slog"

	"chatvault/internal/auth"
	"chatvault/internal/domain"
	"chatvault/internal/domain/services"
)

// TokenResolver resolves bearer tokens to identity ids through a JWTVerifier.
type TokenResolver struct {
	verifier auth.JWTVerifier
	logger   *slog.Logger
}

// NewTokenResolver creates a resolver over the given verifier
func NewTokenResolver(verifier auth.JWTVerifier, logger *slog.Logger) services.IdentityResolver {
	return &TokenResolver{verifier: verifier, logger: logger}
}

// Resolve returns the identity id carried by the token. There are no
// retries and no other error kinds: anything short of a verified token is
// domain.ErrUnauthenticated.
func (r *TokenResolver) Resolve(ctx context.Context, bearerToken string) (string, error) {
	if bearerToken == "" {
		return "", domain.ErrUnauthenticated
	}

	claims, err := r.verifier.VerifyToken(bearerToken)
	if err != nil {
		r.logger.DebugContext(ctx, "identity resolution failed", "error", err)
		return "", domain.ErrUnauthenticated
	}

	return claims.GetUserID(), nil
}
