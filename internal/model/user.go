package model

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
	return role, nil
}

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	LoginAttempts int       `json:"login_attempts"`
	Locked        bool      `json:"locked"`
	CreatedAt     time.Time `json:"created_at"`
}

// PublicUser is the sanitized view of a User returned to clients.
type PublicUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	LoginAttempts int       `json:"login_attempts"`
	Locked        bool      `json:"locked"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		LoginAttempts: u.LoginAttempts,
		Locked:        u.Locked,
		CreatedAt:     u.CreatedAt,
	}
}

func (u User) Principal() Principal {
	return Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// NormalizeEmail is the canonical form used for every lookup and insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Principal struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

type AuthClaims struct {
	Principal
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

type TokenResult struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

type LoginResult struct {
	TokenResult
	User PublicUser `json:"user"`
}

type PasswordValidation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

type UserList struct {
	Count int          `json:"count"`
	Users []PublicUser `json:"users"`
}
