package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository persists revoked tokens in PostgreSQL so the revocation set
// survives restarts and is shared by every instance using the database.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO revoked_tokens (token_hash, revoked_at, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (token_hash) DO UPDATE SET expires_at = GREATEST(revoked_tokens.expires_at, EXCLUDED.expires_at)`,
		hashToken(token), time.Now().UTC(), expiresAt.UTC())
	if err != nil {
		return storeError("revoke token", err)
	}
	return nil
}

func (r *TokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_hash = $1)`,
		hashToken(token)).Scan(&exists)
	if err != nil {
		return false, storeError("check revoked token", err)
	}
	return exists, nil
}

func (r *TokenRepository) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, storeError("clean expired tokens", err)
	}
	return tag.RowsAffected(), nil
}

// StartCleanupTicker removes entries for naturally expired tokens until ctx
// is cancelled.
func (r *TokenRepository) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := r.CleanExpired(ctx)
			if err != nil {
				slog.Warn("revoked token cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("revoked token cleanup", "removed", removed)
			}
		}
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
