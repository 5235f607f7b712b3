package model

import "strings"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password"`
	Name     string `json:"name" validate:"required,max=100"`
}

// Normalize trims the fields that are validated by shape. Passwords are
// taken verbatim.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}
