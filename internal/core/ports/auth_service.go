package ports

import (
	"context"
	"time"

	"github.com/c-library/catalog-admin/internal/core/domain"
)

// AuthService issues and revokes session tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Logout revokes the given token until its natural expiry. Revoking an
	// already-revoked or expired token is not an error.
	Logout(ctx context.Context, token string) error
}

// TokenDenylist records revoked token ids. Entries only need to survive
// until the token's own expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
