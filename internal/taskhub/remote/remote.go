// Package remote is the data access facade in front of the hosted backend.
// It translates local calls into identity and row operations; drivers live
// in the baas and memory subpackages.
package remote

import (
	"context"
	"errors"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"golang.org/x/oauth2"
)

var (
	ErrNotFound           = errors.New("remote: not found")
	ErrForbidden          = errors.New("remote: row belongs to another user")
	ErrInvalidCredentials = errors.New("remote: invalid credentials")
	ErrAlreadyRegistered  = errors.New("remote: email already registered")
	ErrSessionExpired     = errors.New("remote: session expired")
	ErrUserDeleted        = errors.New("remote: user deleted")
)

// Identity is an account known to the identity service.
type Identity struct {
	ID    string
	Email string
}

// Registration is the result of a sign up. Session is nil when the backend
// requires confirmation before the account can be used.
type Registration struct {
	Identity Identity
	Session  Session
}

type EventKind string

const (
	EventTokenRefreshed EventKind = "token_refreshed"
	EventSignedOut      EventKind = "signed_out"
	EventUserDeleted    EventKind = "user_deleted"
)

// Event is an identity change the client did not initiate.
type Event struct {
	Kind   EventKind
	UserID string
	Token  *oauth2.Token
}

// Backend is the unauthenticated entry point.
type Backend interface {
	SignUp(ctx context.Context, email, password string) (Registration, error)
	SignIn(ctx context.Context, email, password string) (Session, error)

	// Resume rebuilds a session from a persisted token, refreshing it when
	// expired and re-validating the identity.
	Resume(ctx context.Context, tok *oauth2.Token) (Session, error)

	// Events is consumed by exactly one reader.
	Events() <-chan Event

	Ping(ctx context.Context) error
}

// Session is a signed in identity with access to its rows.
type Session interface {
	Identity() Identity
	Token() (*oauth2.Token, error)

	Tasks() Tasks
	Profiles() Profiles

	UpdatePassword(ctx context.Context, password string) error

	// SignOut revokes the session. The session is unusable afterwards even
	// when an error is returned.
	SignOut(ctx context.Context) error
}

// Tasks is the tasks table, always scoped to an owner.
type Tasks interface {
	// List returns the owner's tasks ordered by created_at descending.
	List(ctx context.Context, userID string) ([]domain.Task, error)
	Insert(ctx context.Context, t domain.NewTask) (domain.Task, error)
	Update(ctx context.Context, userID, id string, p domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

// Profiles is the users table.
type Profiles interface {
	Get(ctx context.Context, userID string) (domain.User, error)

	// Upsert creates or replaces the profile keyed by user id, so a retried
	// write is harmless.
	Upsert(ctx context.Context, u domain.User) (domain.User, error)
	UpdateName(ctx context.Context, userID, name string) (domain.User, error)
}
