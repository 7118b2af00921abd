package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ignite/footprint/internal/config"
	"github.com/ignite/footprint/internal/storage"
)

// Provider key used for stored tokens.
const Provider = "gmail"

// Scopes requested from Google: mailbox metadata plus the account email.
var scopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/userinfo.email",
}

// googleUserInfo is the subset of Google's userinfo response we need.
type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

// Manager handles the Google OAuth flow and keeps refresh tokens in the
// token store so analysis runs can be started without re-consenting.
type Manager struct {
	cfg          config.AuthConfig
	oauth2Config *oauth2.Config
	tokens       *storage.TokenStore

	mu sync.Mutex
}

// NewManager creates an authentication manager.
func NewManager(cfg config.AuthConfig, tokens *storage.TokenStore) *Manager {
	return &Manager{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		tokens: tokens,
	}
}

// generateState creates a random state string for OAuth
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HandleLogin initiates the Google OAuth flow
func (m *Manager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		http.Error(w, "Failed to generate state", http.StatusInternalServerError)
		return
	}

	// Store state in a cookie for verification
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   300, // 5 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// Offline access with forced consent so Google returns a refresh
	// token even for repeat sign-ins.
	url := m.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// HandleCallback processes the OAuth callback from Google
func (m *Manager) HandleCallback(w http.ResponseWriter, r *http.Request) {
	// Verify state
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		log.Printf("Auth: No state cookie found: %v", err)
		http.Redirect(w, r, "/?error=invalid_state", http.StatusTemporaryRedirect)
		return
	}

	if r.URL.Query().Get("state") != stateCookie.Value {
		log.Printf("Auth: State mismatch")
		http.Redirect(w, r, "/?error=invalid_state", http.StatusTemporaryRedirect)
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// Check for errors from Google
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		log.Printf("Auth: Google returned error: %s", errMsg)
		http.Redirect(w, r, "/?error="+errMsg, http.StatusTemporaryRedirect)
		return
	}

	// Exchange code for token
	code := r.URL.Query().Get("code")
	token, err := m.oauth2Config.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("Auth: Failed to exchange code: %v", err)
		http.Redirect(w, r, "/?error=exchange_failed", http.StatusTemporaryRedirect)
		return
	}

	// Get the account email from Google
	userInfo, err := m.getUserInfo(token.AccessToken)
	if err != nil {
		log.Printf("Auth: Failed to get user info: %v", err)
		http.Redirect(w, r, "/?error=userinfo_failed", http.StatusTemporaryRedirect)
		return
	}

	if err := m.tokens.Save(r.Context(), Provider, userInfo.Email, token); err != nil {
		log.Printf("Auth: Failed to persist token for %s: %v", userInfo.Email, err)
		http.Redirect(w, r, "/?error=token_store_failed", http.StatusTemporaryRedirect)
		return
	}

	log.Printf("Auth: Account connected: %s", userInfo.Email)

	// Remember the active account
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    userInfo.Email,
		Path:     "/",
		MaxAge:   m.cfg.CookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/?account="+userInfo.Email, http.StatusTemporaryRedirect)
}

// HandleLogout disconnects the active account and removes its token.
func (m *Manager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(m.cfg.CookieName); err == nil && cookie.Value != "" {
		if err := m.tokens.Delete(r.Context(), Provider, cookie.Value); err != nil && err != storage.ErrNotFound {
			log.Printf("Auth: Failed to delete token for %s: %v", cookie.Value, err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   m.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// CurrentAccount returns the email on the session cookie, if any.
func (m *Manager) CurrentAccount(r *http.Request) string {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Client returns an authenticated HTTP client for a connected account.
// Refreshed tokens are written back to the store so refresh keeps
// working across restarts.
func (m *Manager) Client(ctx context.Context, email string) (*http.Client, error) {
	token, err := m.tokens.Load(ctx, Provider, email)
	if err != nil {
		return nil, fmt.Errorf("load token for %s: %w", email, err)
	}

	source := &persistingTokenSource{
		manager: m,
		email:   email,
		last:    token,
		base:    m.oauth2Config.TokenSource(ctx, token),
	}
	return oauth2.NewClient(ctx, source), nil
}

// persistingTokenSource writes refreshed tokens back to the store.
type persistingTokenSource struct {
	manager *Manager
	email   string
	last    *oauth2.Token
	base    oauth2.TokenSource
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.manager.mu.Lock()
	defer s.manager.mu.Unlock()
	if token.AccessToken != s.last.AccessToken {
		s.last = token
		if err := s.manager.tokens.Save(context.Background(), Provider, s.email, token); err != nil {
			log.Printf("Auth: Failed to persist refreshed token for %s: %v", s.email, err)
		}
	}
	return token, nil
}

// getUserInfo fetches the account's profile from Google
func (m *Manager) getUserInfo(accessToken string) (*googleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google API error: %s", string(body))
	}

	var userInfo googleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}

	return &userInfo, nil
}
