package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/footprint/internal/config"
)

func testManager() *Manager {
	return NewManager(config.AuthConfig{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		RedirectURL:        "http://localhost:8080/auth/callback",
		CookieName:         "footprint_session",
		CookieMaxAge:       3600,
	}, nil)
}

func TestHandleLogin(t *testing.T) {
	m := testManager()

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	m.HandleLogin(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	location := rec.Header().Get("Location")
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, "client-id")
	assert.Contains(t, location, "access_type=offline")
	assert.Contains(t, location, "prompt=consent")
	assert.Contains(t, location, "gmail.readonly")

	// State cookie must match the state in the redirect URL
	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}
	require.NotNil(t, stateCookie, "state cookie not set")
	assert.True(t, stateCookie.HttpOnly)
	assert.Contains(t, location, "state="+stateCookie.Value)
}

func TestHandleCallbackStateMismatch(t *testing.T) {
	m := testManager()

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=wrong&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "expected"})
	rec := httptest.NewRecorder()
	m.HandleCallback(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.True(t, strings.Contains(rec.Header().Get("Location"), "error=invalid_state"))
}

func TestHandleCallbackMissingStateCookie(t *testing.T) {
	m := testManager()

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=abc&code=abc", nil)
	rec := httptest.NewRecorder()
	m.HandleCallback(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=invalid_state")
}

func TestHandleCallbackProviderError(t *testing.T) {
	m := testManager()

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=s&error=access_denied", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s"})
	rec := httptest.NewRecorder()
	m.HandleCallback(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=access_denied")
}

func TestCurrentAccount(t *testing.T) {
	m := testManager()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", m.CurrentAccount(req))

	req.AddCookie(&http.Cookie{Name: "footprint_session", Value: "owner@x.com"})
	assert.Equal(t, "owner@x.com", m.CurrentAccount(req))
}
