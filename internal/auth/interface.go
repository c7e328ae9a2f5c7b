package auth

import "chatvault/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// The middleware only sees this interface, never the key source.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns domain.ErrUnauthenticated if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
