package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Jonatndm/API-Authenticate/internal/event"
	"github.com/Jonatndm/API-Authenticate/internal/model"
	"github.com/Jonatndm/API-Authenticate/internal/password"
	"github.com/Jonatndm/API-Authenticate/internal/revocation"
	"github.com/Jonatndm/API-Authenticate/internal/token"
	"github.com/Jonatndm/API-Authenticate/internal/util"
)

const DefaultMaxLoginAttempts = 5

// dummyPassword is hashed once and compared against on unknown-email logins
// so both failure paths pay for a bcrypt comparison.
const dummyPassword = "Dummy-Passw0rd!"

// CredentialStore persists user records. Implementations must apply
// RecordFailedLogin as one atomic write per record and must report a
// duplicate email from their own uniqueness constraint. ResetLoginAttempts
// must leave a locked record untouched and return ErrAccountLocked.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, email string, passwordHash string, name string) (model.User, error)
	Save(ctx context.Context, user model.User) error
	SetRole(ctx context.Context, id string, role model.Role) error
	RecordFailedLogin(ctx context.Context, id string, maxAttempts int) (model.User, error)
	ResetLoginAttempts(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.User, error)
}

type AuthService struct {
	users       CredentialStore
	policy      password.Policy
	hasher      *password.Hasher
	tokens      *token.Manager
	revoked     revocation.Store
	bus         event.Bus
	maxAttempts int

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users CredentialStore,
	policy password.Policy,
	hasher *password.Hasher,
	tokens *token.Manager,
	revoked revocation.Store,
	bus event.Bus,
	maxAttempts int,
) (*AuthService, error) {
	if users == nil || hasher == nil || tokens == nil || revoked == nil {
		return nil, errors.New("auth service requires a credential store, hasher, token manager and revocation store")
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxLoginAttempts
	}

	return &AuthService{
		users:       users,
		policy:      policy,
		hasher:      hasher,
		tokens:      tokens,
		revoked:     revoked,
		bus:         bus,
		maxAttempts: maxAttempts,
	}, nil
}

// Register creates a user with the default role and returns its id.
func (s *AuthService) Register(ctx context.Context, email string, plain string, name string) (string, error) {
	email = model.NormalizeEmail(email)

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", model.ErrDuplicateEmail
	case !errors.Is(err, model.ErrUserNotFound):
		return "", err
	}

	name, err = util.SanitizeDisplayName(name)
	if err != nil {
		return "", err
	}

	if result := s.policy.Validate(plain); !result.IsValid {
		return "", &model.WeakPasswordError{Reasons: result.Errors}
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return "", err
	}

	user, err := s.users.Create(ctx, email, hash, name)
	if err != nil {
		return "", err
	}

	s.publish(event.TypeUserRegistered, user.ID, map[string]any{"email": user.Email})
	return user.ID, nil
}

func (s *AuthService) Login(ctx context.Context, email string, plain string) (model.LoginResult, error) {
	email = model.NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		s.compareDummy(plain)
		s.publish(event.TypeLoginFailed, "", map[string]any{"email": email, "reason": "unknown_email"})
		return model.LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.LoginResult{}, err
	}

	if user.Locked {
		s.publish(event.TypeLoginFailed, user.ID, map[string]any{"email": email, "reason": "locked"})
		return model.LoginResult{}, model.ErrAccountLocked
	}

	matched, err := s.hasher.Compare(user.PasswordHash, plain)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("verify credentials for %s: %w", user.ID, err)
	}

	if !matched {
		updated, err := s.users.RecordFailedLogin(ctx, user.ID, s.maxAttempts)
		if err != nil {
			return model.LoginResult{}, err
		}

		s.publish(event.TypeLoginFailed, user.ID, map[string]any{
			"email":    email,
			"reason":   "wrong_password",
			"attempts": updated.LoginAttempts,
		})
		if updated.Locked {
			s.publish(event.TypeAccountLocked, user.ID, map[string]any{
				"email":    email,
				"attempts": updated.LoginAttempts,
			})
		}
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	// A concurrent failure may have locked the account during the compare.
	if err := s.users.ResetLoginAttempts(ctx, user.ID); err != nil {
		if errors.Is(err, model.ErrAccountLocked) {
			s.publish(event.TypeLoginFailed, user.ID, map[string]any{"email": email, "reason": "locked"})
		}
		return model.LoginResult{}, err
	}
	user.LoginAttempts = 0

	issued, err := s.tokens.Sign(user.Principal())
	if err != nil {
		return model.LoginResult{}, err
	}

	s.publish(event.TypeLoginSucceeded, user.ID, map[string]any{"email": email, "jti": issued.TokenID})
	return model.LoginResult{
		TokenResult: s.tokenResult(issued),
		User:        user.Public(),
	}, nil
}

// Refresh exchanges current for a new token carrying the same principal and
// revokes current until its own expiry. The account is re-read first so a
// deleted or locked account cannot keep rotating its token.
func (s *AuthService) Refresh(ctx context.Context, claims *model.AuthClaims, current string) (model.TokenResult, error) {
	if claims == nil || current == "" {
		return model.TokenResult{}, model.ErrMissingToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenResult{}, err
	}
	if user.Locked {
		return model.TokenResult{}, model.ErrAccountLocked
	}

	issued, err := s.tokens.Sign(claims.Principal)
	if err != nil {
		return model.TokenResult{}, err
	}

	expiresAt := claims.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.tokens.ExpiresAt(current)
	}
	if err := s.revoked.Revoke(ctx, current, expiresAt); err != nil {
		return model.TokenResult{}, err
	}

	s.publish(event.TypeTokenRefreshed, claims.UserID, map[string]any{
		"old_jti": claims.TokenID,
		"new_jti": issued.TokenID,
	})
	return s.tokenResult(issued), nil
}

// Logout revokes tok whether or not it still verifies. Revoking an already
// revoked token succeeds.
func (s *AuthService) Logout(ctx context.Context, tok string) error {
	if tok == "" {
		return model.ErrMissingToken
	}

	if err := s.revoked.Revoke(ctx, tok, s.tokens.ExpiresAt(tok)); err != nil {
		return err
	}

	s.publish(event.TypeTokenRevoked, "", nil)
	return nil
}

func (s *AuthService) IsRevoked(ctx context.Context, tok string) (bool, error) {
	return s.revoked.IsRevoked(ctx, tok)
}

// EnsureAdmin makes sure an admin account exists for email. A missing
// account is registered with plain, an existing one is promoted. The
// password of an existing account is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email string, plain string, name string) (model.User, error) {
	email = model.NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		id, regErr := s.Register(ctx, email, plain, name)
		if regErr != nil {
			return model.User{}, fmt.Errorf("register admin: %w", regErr)
		}
		user, err = s.users.FindByID(ctx, id)
	}
	if err != nil {
		return model.User{}, err
	}

	if user.Role == model.RoleAdmin {
		return user, nil
	}

	// Role-only write so concurrent login bookkeeping is not overwritten.
	if err := s.users.SetRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return model.User{}, err
	}
	if user, err = s.users.FindByID(ctx, user.ID); err != nil {
		return model.User{}, err
	}

	s.publish(event.TypeAdminProvisioned, user.ID, map[string]any{"email": user.Email})
	slog.Info("admin account provisioned", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *AuthService) tokenResult(issued model.IssuedToken) model.TokenResult {
	return model.TokenResult{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
	}
}

func (s *AuthService) compareDummy(plain string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			slog.Warn("dummy hash unavailable", "error", err)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Compare(s.dummyHash, plain)
}

func (s *AuthService) publish(typ event.Type, actorID string, payload map[string]any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{Type: typ, ActorID: actorID, Payload: payload})
}
