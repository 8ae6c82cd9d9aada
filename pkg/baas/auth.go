package baas

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// SignUp registers a new identity. data is stored as user metadata.
func (c *Client) SignUp(ctx context.Context, email, password string, data map[string]any) (*SignUpResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/signup", credentials{
		Email:    email,
		Password: password,
		Data:     data,
	})
	if err != nil {
		return nil, err
	}

	var resp signUpResponse
	if err := do(c.HTTPClient, req, &resp); err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		return &SignUpResult{User: User{ID: resp.ID, Email: resp.Email}}, nil
	}
	return &SignUpResult{
		User:    resp.User,
		Session: c.newSession(resp.OAuth2Token(), resp.User),
	}, nil
}

// SignInWithPassword runs the password grant and returns a live Session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", credentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var resp TokenResponse
	if err := do(c.HTTPClient, req, &resp); err != nil {
		return nil, err
	}
	return c.newSession(resp.OAuth2Token(), resp.User), nil
}

// RefreshSession exchanges a refresh token for a new grant. Refresh tokens
// are single use; the returned grant carries the replacement.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, err
	}

	var resp TokenResponse
	if err := do(c.HTTPClient, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResumeSession rebuilds a Session from persisted tokens. The token is
// refreshed when expired and the identity is re-validated with the server
// before the Session is returned.
func (c *Client) ResumeSession(ctx context.Context, tok *oauth2.Token) (*Session, error) {
	s := c.newSession(tok, User{})
	if _, err := s.GetUser(ctx); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}
