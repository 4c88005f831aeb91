package ports

import (
	"context"

	"github.com/nestmart/shop-api/internal/core/domain"
)

// AuthService orchestrates credential verification and token issuance.
type AuthService interface {
	// SignIn returns a signed access token. Every failure to authenticate
	// surfaces as domain.ErrInvalidCredentials.
	SignIn(ctx context.Context, email, password string) (string, error)
}

// TokenIssuer produces a signed, time-limited bearer token for an identity.
type TokenIssuer interface {
	Issue(id domain.Identity) (string, error)
}

// TokenVerifier validates a bearer token and returns its claims.
// It fails with domain.ErrTokenExpired or domain.ErrTokenInvalid.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// PasswordHasher is a one-way salted hash.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, encodedHash string) (bool, error)
}
