package service

import (
	"context"
	"strings"

	"github.com/Jonatndm/API-Authenticate/internal/model"
	"github.com/Jonatndm/API-Authenticate/internal/revocation"
	"github.com/Jonatndm/API-Authenticate/internal/token"
)

const bearerPrefix = "bearer "

// Gate decides whether a bearer token identifies a caller and whether that
// caller holds one of the roles a route requires.
type Gate struct {
	tokens  *token.Manager
	revoked revocation.Store
}

func NewGate(tokens *token.Manager, revoked revocation.Store) *Gate {
	return &Gate{tokens: tokens, revoked: revoked}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", model.ErrMissingToken
	}

	tok := strings.TrimSpace(header[len(bearerPrefix):])
	if tok == "" {
		return "", model.ErrMissingToken
	}
	return tok, nil
}

// Authenticate checks the revocation set before the signature, so a revoked
// token reports ErrTokenRevoked even once it has also expired.
func (g *Gate) Authenticate(ctx context.Context, tok string) (*model.AuthClaims, error) {
	if strings.TrimSpace(tok) == "" {
		return nil, model.ErrMissingToken
	}

	revoked, err := g.revoked.IsRevoked(ctx, tok)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, model.ErrTokenRevoked
	}

	return g.tokens.Verify(tok)
}

// Authorize allows any authenticated caller when required is empty.
func (g *Gate) Authorize(claims *model.AuthClaims, required ...model.Role) error {
	return Authorize(claims, required...)
}

func Authorize(claims *model.AuthClaims, required ...model.Role) error {
	if claims == nil {
		return model.ErrMissingToken
	}
	if !claims.Role.Valid() {
		return model.ErrForbidden
	}
	if len(required) == 0 {
		return nil
	}

	for _, role := range required {
		if claims.Role == role {
			return nil
		}
	}
	return model.ErrForbidden
}
