package baas

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Session is a signed in identity. Its HTTP client authenticates every
// request and refreshes the access token ExpiryDelta before it expires.
type Session struct {
	client *Client
	source oauth2.TokenSource
	hc     *http.Client

	mu     sync.RWMutex
	user   User
	closed bool
}

func (c *Client) newSession(tok *oauth2.Token, user User) *Session {
	s := &Session{client: c, user: user}

	delta := c.ExpiryDelta
	if delta <= 0 {
		delta = DefaultExpiryDelta
	}
	refresher := &refreshSource{session: s, refreshToken: tok.RefreshToken}
	s.source = oauth2.ReuseTokenSourceWithExpiry(tok, refresher, delta)

	base := c.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	s.hc = &http.Client{
		Timeout:   base.Timeout,
		Transport: &oauth2.Transport{Source: s.source, Base: base.Transport},
	}
	return s
}

// refreshSource performs the refresh grant when the cached token expires.
type refreshSource struct {
	session *Session

	mu           sync.Mutex
	refreshToken string
}

func (r *refreshSource) Token() (*oauth2.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.session.client
	userID := r.session.User().ID

	if r.refreshToken == "" {
		return nil, errors.New("baas: access token expired and no refresh token available")
	}

	timeout := 10 * time.Second
	if c.HTTPClient != nil && c.HTTPClient.Timeout > 0 {
		timeout = c.HTTPClient.Timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := c.RefreshSession(ctx, r.refreshToken)
	if err != nil {
		if IsCode(err, ErrorCodeInvalidGrant) || IsCode(err, ErrorCodeSessionNotFound) {
			c.publish(Event{Kind: EventSignedOut, UserID: userID})
		}
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	tok := resp.OAuth2Token()
	r.refreshToken = tok.RefreshToken
	if resp.User.ID != "" {
		r.session.setUser(resp.User)
		userID = resp.User.ID
	}

	c.publish(Event{Kind: EventTokenRefreshed, UserID: userID, Token: tok})
	return tok, nil
}

// User returns the identity last seen for this session.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) setUser(u User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// Token returns a valid token, refreshing it first when needed.
func (s *Session) Token() (*oauth2.Token, error) {
	if s.isClosed() {
		return nil, ErrNoSession
	}
	return s.source.Token()
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// authRequest builds a request on the session's authenticated client.
func (s *Session) authRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	if s.isClosed() {
		return nil, ErrNoSession
	}
	return s.client.newRequest(ctx, method, path, body)
}

// GetUser re-validates the session with the identity API. A missing user
// publishes EventUserDeleted.
func (s *Session) GetUser(ctx context.Context) (*User, error) {
	req, err := s.authRequest(ctx, http.MethodGet, "/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}

	var u User
	if err := do(s.hc, req, &u); err != nil {
		if IsCode(err, ErrorCodeUserNotFound) || IsStatus(err, http.StatusNotFound) {
			s.client.publish(Event{Kind: EventUserDeleted, UserID: s.User().ID})
		}
		return nil, err
	}

	s.setUser(u)
	return &u, nil
}

// UpdateUser changes identity attributes such as the password.
func (s *Session) UpdateUser(ctx context.Context, attrs UserAttributes) (*User, error) {
	req, err := s.authRequest(ctx, http.MethodPut, "/auth/v1/user", attrs)
	if err != nil {
		return nil, err
	}

	var u User
	if err := do(s.hc, req, &u); err != nil {
		return nil, err
	}

	s.setUser(u)
	return &u, nil
}

// SignOut revokes the session server side. The Session is unusable
// afterwards even when the call fails.
func (s *Session) SignOut(ctx context.Context) error {
	req, err := s.authRequest(ctx, http.MethodPost, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	defer s.close()

	return do(s.hc, req, nil)
}
