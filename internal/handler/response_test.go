package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jonatndm/API-Authenticate/internal/model"
	"github.com/Jonatndm/API-Authenticate/pkg/apierror"
)

func decodeBody(t *testing.T, body string, dst any) error {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return decodeJSON(httptest.NewRecorder(), r, dst)
}

func TestDecodeJSON(t *testing.T) {
	t.Run("normalizes before validating", func(t *testing.T) {
		var req model.RegisterRequest
		err := decodeBody(t, `{"email":"  a@x.com ","password":" p ","name":"  Ada  ","extra":1}`, &req)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", req.Email)
		assert.Equal(t, "Ada", req.Name)
		assert.Equal(t, " p ", req.Password)
	})

	t.Run("empty body", func(t *testing.T) {
		var req model.LoginRequest
		err := decodeBody(t, "", &req)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
		assert.Equal(t, "request body is required", apiErr.Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		var req model.LoginRequest
		err := decodeBody(t, `{"email":`, &req)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "invalid JSON body", apiErr.Message)
	})

	t.Run("field errors are listed", func(t *testing.T) {
		var req model.RegisterRequest
		err := decodeBody(t, `{"email":"nope","password":"x","name":"   "}`, &req)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
		assert.Equal(t, "email,name", apiErr.Details)
		assert.Equal(t, []string{
			"email must be a valid email address",
			"name is required",
		}, apiErr.Errors)
	})

	t.Run("oversized body", func(t *testing.T) {
		var req model.LoginRequest
		body := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
		err := decodeBody(t, body, &req)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "invalid JSON body", apiErr.Message)
	})
}
