package model

import (
	"errors"
	"strings"
)

var (
	// Account errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet the security requirements")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked after too many failed login attempts")

	// Token errors
	ErrMissingToken     = errors.New("missing or malformed bearer token")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token")

	// Permission errors
	ErrForbidden = errors.New("forbidden")

	// Infrastructure errors
	ErrStoreUnavailable = errors.New("store unavailable")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)

// WeakPasswordError carries every policy rule the password violated.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	if len(e.Reasons) == 0 {
		return ErrWeakPassword.Error()
	}
	return ErrWeakPassword.Error() + ": " + strings.Join(e.Reasons, "; ")
}

func (e *WeakPasswordError) Unwrap() error {
	return ErrWeakPassword
}
