package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"trendcast/config"
	"trendcast/store"
	"trendcast/types"
)

// Scopes requested from Google: upload, read-only channel access, profile.
var scopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// ErrNoRefreshToken indicates a refresh was attempted on a session that
// never received a refresh token.
var ErrNoRefreshToken = errors.New("session has no refresh token")

// Manager owns the OAuth configuration and the server-side session records.
type Manager struct {
	oauth    *oauth2.Config
	sessions store.SessionStore

	now func() time.Time
}

// NewManager builds a Manager from the service configuration.
func NewManager(cfg config.Config, sessions store.SessionStore) *Manager {
	return &Manager{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		sessions: sessions,
		now:      time.Now,
	}
}

// SetEndpoint overrides the OAuth provider endpoint. Tests point it at a
// local server; production always uses Google's.
func (m *Manager) SetEndpoint(endpoint oauth2.Endpoint) {
	m.oauth.Endpoint = endpoint
}

// Configured reports whether Google credentials are present.
func (m *Manager) Configured() bool {
	return m.oauth.ClientID != "" && m.oauth.ClientSecret != ""
}

// LoginURL returns the authorization-code-grant consent URL with offline
// access and forced consent, so a refresh token is issued on every login.
func (m *Manager) LoginURL() string {
	return m.oauth.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades the authorization code for tokens and creates a session
// record referenced by a fresh opaque id.
func (m *Manager) Exchange(ctx context.Context, code string) (types.Session, error) {
	token, err := m.oauth.Exchange(ctx, code)
	if err != nil {
		return types.Session{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	now := m.now()
	session := types.Session{
		ID:               uuid.NewString(),
		AccessToken:      token.AccessToken,
		RefreshToken:     token.RefreshToken,
		AccessExpiresAt:  now.Add(config.AccessTokenTTL),
		RefreshExpiresAt: now.Add(config.RefreshTokenTTL),
		CreatedAt:        now,
	}

	if err := m.sessions.Save(ctx, session); err != nil {
		return types.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Session looks up the session record for the given id.
func (m *Manager) Session(ctx context.Context, id string) (types.Session, error) {
	if id == "" {
		return types.Session{}, store.ErrSessionNotFound
	}
	return m.sessions.Find(ctx, id)
}

// Client returns an HTTP client authenticated with the session's current
// access token. No proactive refresh happens here; expiry is discovered when
// a call fails and the caller invokes Refresh.
func (m *Manager) Client(ctx context.Context, session types.Session) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: session.AccessToken,
	}))
}

// Refresh performs exactly one refresh using the session's refresh token and
// persists the new access token. Callers retry their intent once on success;
// a failure means the session is simply unauthenticated.
func (m *Manager) Refresh(ctx context.Context, session types.Session) (types.Session, error) {
	if session.RefreshToken == "" {
		return types.Session{}, ErrNoRefreshToken
	}

	src := m.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: session.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return types.Session{}, fmt.Errorf("refresh access token: %w", err)
	}

	session.AccessToken = token.AccessToken
	session.AccessExpiresAt = m.now().Add(config.AccessTokenTTL)
	if token.RefreshToken != "" {
		session.RefreshToken = token.RefreshToken
	}

	if err := m.sessions.Save(ctx, session); err != nil {
		return types.Session{}, fmt.Errorf("save refreshed session: %w", err)
	}
	return session, nil
}
