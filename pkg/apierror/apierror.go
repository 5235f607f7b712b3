package apierror

import (
	"fmt"
	"net/http"
)

type APIError struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Details    string   `json:"details,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	HTTPStatus int      `json:"-"`
	cause      error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// WithErrors attaches a list of individual reasons, e.g. failed policy rules.
func (e *APIError) WithErrors(reasons []string) *APIError {
	e.Errors = append([]string(nil), reasons...)
	return e
}

// WithCause keeps the underlying error reachable through errors.Is/As.
func (e *APIError) WithCause(err error) *APIError {
	e.cause = err
	return e
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

func BadRequest(message string, details string) *APIError {
	return New("BAD_REQUEST", message, details, http.StatusBadRequest)
}
