package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Jonatndm/API-Authenticate/internal/model"
	"github.com/Jonatndm/API-Authenticate/pkg/apierror"
)

func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}

// WriteJSON writes a success envelope around data.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{
		Success: true,
		Data:    data,
	})
}

// WriteError maps err to a status code and an error envelope. Errors that
// match no known kind are logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	var weak *model.WeakPasswordError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
		body.Errors = apiErr.Errors
	} else if errors.As(err, &weak) {
		status = http.StatusBadRequest
		body.Code = "WEAK_PASSWORD"
		body.Message = "Password does not meet the security requirements"
		body.Errors = weak.Reasons
	} else if errors.Is(err, model.ErrWeakPassword) {
		status = http.StatusBadRequest
		body.Code = "WEAK_PASSWORD"
		body.Message = "Password does not meet the security requirements"
	} else if errors.Is(err, model.ErrDuplicateEmail) {
		status = http.StatusBadRequest
		body.Code = "DUPLICATE_EMAIL"
		body.Message = "Email is already registered"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		body.Code = "INVALID_CREDENTIALS"
		body.Message = "Invalid email or password"
	} else if errors.Is(err, model.ErrAccountLocked) {
		status = http.StatusForbidden
		body.Code = "ACCOUNT_LOCKED"
		body.Message = "Account locked after too many failed login attempts"
	} else if errors.Is(err, model.ErrMissingToken) {
		status = http.StatusUnauthorized
		body.Code = "MISSING_TOKEN"
		body.Message = "Authentication required"
	} else if errors.Is(err, model.ErrTokenRevoked) {
		status = http.StatusUnauthorized
		body.Code = "TOKEN_REVOKED"
		body.Message = "Token has been revoked"
	} else if errors.Is(err, model.ErrTokenExpired) {
		status = http.StatusUnauthorized
		body.Code = "TOKEN_EXPIRED"
		body.Message = "Token has expired"
	} else if errors.Is(err, model.ErrInvalidSignature) {
		status = http.StatusUnauthorized
		body.Code = "INVALID_TOKEN"
		body.Message = "Invalid token"
	} else if errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else if errors.Is(err, errPanic) {
		// already logged with its stack by Recovery
	} else if errors.Is(err, model.ErrStoreUnavailable) {
		slog.Error("store unavailable", "error", err)
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in WriteError", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error:   body,
	})
}
