package middleware

import (
	"context"
	"net/http"

	"github.com/Jonatndm/API-Authenticate/internal/model"
	"github.com/Jonatndm/API-Authenticate/internal/service"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.AuthClaims, error)
}

type contextKey string

const (
	authClaimsContextKey contextKey = "auth_claims"
	authTokenContextKey  contextKey = "auth_token"
)

type AuthMiddleware struct {
	gate authenticator
}

func NewAuthMiddleware(gate authenticator) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// RequireAuth resolves the bearer token into claims and stores both in the
// request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := service.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			WriteError(w, err)
			return
		}

		claims, err := m.gate.Authenticate(r.Context(), token)
		if err != nil {
			WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		ctx = context.WithValue(ctx, authTokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireBearer only extracts the bearer token into the context. Routes
// behind it accept tokens that are expired, revoked or unverifiable.
func (m *AuthMiddleware) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := service.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), authTokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles must run after RequireAuth. Without claims in the context it
// answers 401, not 403.
func (m *AuthMiddleware) RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := ClaimsFromContext(r.Context())
			if err := service.Authorize(claims, roles...); err != nil {
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(authTokenContextKey).(string)
	return token, ok && token != ""
}
