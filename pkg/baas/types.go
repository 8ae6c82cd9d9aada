package baas

import (
	"time"

	"golang.org/x/oauth2"
)

// User is an identity record as returned by the identity API.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TokenResponse is the body of a successful token grant.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// OAuth2Token converts the grant into an oauth2.Token. expires_at wins over
// expires_in when both are present.
func (t *TokenResponse) OAuth2Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
	}
	switch {
	case t.ExpiresAt > 0:
		tok.Expiry = time.Unix(t.ExpiresAt, 0)
	case t.ExpiresIn > 0:
		tok.Expiry = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return tok
}

// signUpResponse is either a full token grant (auto-confirmed accounts) or
// a bare user (confirmation pending).
type signUpResponse struct {
	TokenResponse

	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignUpResult carries the new identity. Session is nil when the account
// still awaits confirmation.
type SignUpResult struct {
	User    User
	Session *Session
}

// UserAttributes are the mutable fields of an identity.
type UserAttributes struct {
	Email    string         `json:"email,omitempty"`
	Password string         `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type EventKind string

const (
	EventTokenRefreshed EventKind = "token_refreshed"
	EventSignedOut      EventKind = "signed_out"
	EventUserDeleted    EventKind = "user_deleted"
)

// Event is an out-of-band identity change. Token is set for
// EventTokenRefreshed only.
type Event struct {
	Kind   EventKind
	UserID string
	Token  *oauth2.Token
}
