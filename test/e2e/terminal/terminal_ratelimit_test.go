package terminal_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLoginRateLimited verifies the strict per-IP limit on the login endpoint
// rejects a burst of credential guesses.
func TestLoginRateLimited(t *testing.T) {
	srv, _ := setupTerminal(t)

	creds := map[string]string{"username": "agent1", "password": "wrong"}
	for i := 0; i < 5; i++ {
		resp, _ := postJSON(t, srv.URL+"/v1/session/login", creds)
		require.Equal(t, http.StatusBadGateway, resp.StatusCode, "attempt %d should reach the core", i+1)
	}

	resp, body := postJSON(t, srv.URL+"/v1/session/login", creds)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
	require.Contains(t, body["error"], "too many requests")
	t.Logf("Sixth login attempt rejected with Retry-After %s", resp.Header.Get("Retry-After"))
}

// TestHealthEndpointsNotRateLimited exercises the probe endpoints used by the
// kiosk supervisor.
func TestHealthEndpointsNotRateLimited(t *testing.T) {
	srv, _ := setupTerminal(t)

	for i := 0; i < 20; i++ {
		resp, body := getJSON(t, srv.URL+"/livez")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "ok", body["status"])
	}

	resp, body := getJSON(t, srv.URL+"/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
	checks := body["checks"].(map[string]any)
	require.Equal(t, "ok", checks["database"])
}
