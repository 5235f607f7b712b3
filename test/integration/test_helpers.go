//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jonatndm/API-Authenticate/internal/app"
	"github.com/Jonatndm/API-Authenticate/internal/config"
	"github.com/Jonatndm/API-Authenticate/internal/event"
	"github.com/Jonatndm/API-Authenticate/internal/repository"
	"github.com/Jonatndm/API-Authenticate/internal/revocation"
)

const (
	adminEmail    = "root@x.com"
	adminPassword = "R00t$ecret"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	} `json:"error"`
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:            "test",
		ServerPort:        "0",
		RequestTimeout:    5 * time.Second,
		JWTSecret:         "integration-secret",
		JWTExpiration:     time.Hour,
		MaxLoginAttempts:  5,
		PasswordMinLen:    8,
		BcryptCost:        4,
		StoreDriver:       config.StoreMemory,
		RevocationBackend: config.RevocationMemory,
		CORSOrigins:       []string{"*"},
	}
}

// newServer serves the full HTTP stack over in-memory stores with a seeded
// admin account.
func newServer(t *testing.T, revoked revocation.Store) *httptest.Server {
	t.Helper()

	if revoked == nil {
		revoked = revocation.NewMemoryStore()
	}

	cfg := testConfig()
	services, err := app.BuildServices(cfg, repository.NewMemoryUserRepository(), revoked, event.NewBus())
	require.NoError(t, err)

	_, err = services.Auth.EnsureAdmin(context.Background(), adminEmail, adminPassword, "Root")
	require.NoError(t, err)

	server := httptest.NewServer(app.NewHTTPHandler(cfg, services))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method string, url string, payload any, token string) (int, envelope) {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func login(t *testing.T, baseURL string, email string, password string) string {
	t.Helper()

	status, env := doJSON(t, http.MethodPost, baseURL+"/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, status)

	var result struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &result)
	require.NotEmpty(t, result.Token)
	return result.Token
}
