// Package token signs and verifies the HS256 bearer tokens handed out at
// login and refresh.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Jonatndm/API-Authenticate/internal/model"
)

const DefaultTTL = time.Hour

type claims struct {
	UserID string     `json:"userId"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Sign mints a token for principal that expires after the configured TTL.
func (m *Manager) Sign(principal model.Principal) (model.IssuedToken, error) {
	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	tokenID := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: principal.UserID,
		Email:  principal.Email,
		Role:   principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   principal.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return model.IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	return model.IssuedToken{Token: signed, TokenID: tokenID, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// Verify checks signature, algorithm and expiry. An expired token with a
// valid signature yields ErrTokenExpired; every other failure yields
// ErrInvalidSignature.
func (m *Manager) Verify(tokenString string) (*model.AuthClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, model.ErrMissingToken
	}

	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, model.ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidSignature, err)
	case !token.Valid:
		return nil, model.ErrInvalidSignature
	}

	if parsed.UserID == "" || !parsed.Role.Valid() {
		return nil, fmt.Errorf("%w: incomplete claims", model.ErrInvalidSignature)
	}

	out := &model.AuthClaims{
		Principal: model.Principal{UserID: parsed.UserID, Email: parsed.Email, Role: parsed.Role},
		TokenID:   parsed.ID,
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}

	return out, nil
}

// ExpiresAt reads the exp claim without verifying the token. It falls back to
// a full TTL from now when the claim cannot be read.
func (m *Manager) ExpiresAt(tokenString string) time.Time {
	fallback := m.now().UTC().Add(m.ttl)

	parsed := &claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, parsed); err != nil {
		return fallback
	}
	if parsed.ExpiresAt == nil {
		return fallback
	}

	return parsed.ExpiresAt.Time
}
