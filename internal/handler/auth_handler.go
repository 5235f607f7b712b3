package handler

import (
	"net/http"

	"github.com/Jonatndm/API-Authenticate/internal/middleware"
	"github.com/Jonatndm/API-Authenticate/internal/model"
	"github.com/Jonatndm/API-Authenticate/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.service.Register(r.Context(), payload.Email, payload.Password, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.RegisterResponse{UserID: id})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// Refresh expects RequireAuth to have run.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	token, _ := middleware.TokenFromContext(r.Context())

	result, err := h.service.Refresh(r.Context(), claims, token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// Logout expects RequireBearer to have run. Repeating it with the same
// token succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.TokenFromContext(r.Context())

	if err := h.service.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true})
}
