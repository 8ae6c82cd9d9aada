package taskhubsdk

import (
	"context"
	"net/http"
)

// Register creates an account. The server stays signed out.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login signs the server in as the given user.
func (c *Client) Login(ctx context.Context, email, password string) (*SessionResponse, error) {
	var out SessionResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout signs the current user out.
func (c *Client) Logout(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession returns the session status without waiting for restoration.
func (c *Client) GetSession(ctx context.Context) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.do(ctx, http.MethodGet, "/v1/session", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile returns the signed in user's profile.
func (c *Client) GetProfile(ctx context.Context) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/v1/profile", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the name and optionally the password.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := c.do(ctx, http.MethodPut, "/v1/profile", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DrainNotifications returns and clears the pending notifications.
func (c *Client) DrainNotifications(ctx context.Context) ([]NotificationResponse, error) {
	var out NotificationsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/notifications", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}
