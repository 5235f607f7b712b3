// Package revocation keeps the set of tokens invalidated before their natural
// expiry (logout, refresh rotation).
package revocation

import (
	"context"
	"time"
)

// Store records revoked tokens. Implementations must be safe for concurrent
// use. An entry only needs to outlive the token's own expiry.
type Store interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
