package domain

import (
	"time"

	"golang.org/x/oauth2"
)

type SessionStatus string

const (
	SessionLoading       SessionStatus = "loading"
	SessionAuthenticated SessionStatus = "authenticated"
	SessionAnonymous     SessionStatus = "anonymous"
)

// PersistedSession is what survives a restart so the session can be
// restored. The token is sealed before it reaches the state store.
type PersistedSession struct {
	UserID    string
	Email     string
	Token     *oauth2.Token
	UpdatedAt time.Time
}

// PendingProfile is a profile whose remote write did not complete during
// sign up. It is written on the next sign in of the same user.
type PendingProfile struct {
	UserID    string
	Name      string
	Email     string
	DOB       *time.Time
	CreatedAt time.Time
}

// TaskSnapshot is the last known task list of a user, used to seed the
// cache before the first fetch completes.
type TaskSnapshot struct {
	UserID    string
	Tasks     []Task
	FetchedAt time.Time
}
