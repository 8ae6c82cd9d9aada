// Package hosted adapts pkg/baas to remote.Backend. Tables follow the hosted
// schema: tasks(task_id, user_id, task_name, status, created_at, updated_at)
// and users(user_id, name, email, dob).
package hosted

import (
	"context"
	"errors"
	"net/http"

	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/pkg/baas"
	"github.com/ParamD12/taskhub-app/pkg/jwtx"
	"golang.org/x/oauth2"
)

const (
	tableTasks = "tasks"
	tableUsers = "users"
)

type Backend struct {
	client *baas.Client
	events chan remote.Event
}

var _ remote.Backend = (*Backend)(nil)

// New wraps client. The returned backend owns the client's event feed and
// must be started with Run to forward it.
func New(client *baas.Client) *Backend {
	return &Backend{client: client, events: make(chan remote.Event, 16)}
}

// Run forwards identity events until ctx is done.
func (b *Backend) Run(ctx context.Context) {
	src := b.client.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-src:
			select {
			case b.events <- remote.Event{Kind: remote.EventKind(ev.Kind), UserID: ev.UserID, Token: ev.Token}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (b *Backend) Events() <-chan remote.Event { return b.events }

func (b *Backend) Ping(ctx context.Context) error {
	return mapError(b.client.Health(ctx))
}

func (b *Backend) SignUp(ctx context.Context, email, password string) (remote.Registration, error) {
	res, err := b.client.SignUp(ctx, email, password, nil)
	if err != nil {
		return remote.Registration{}, mapError(err)
	}

	reg := remote.Registration{Identity: identityOf(res.User)}
	if res.Session != nil {
		reg.Session = &session{s: res.Session}
	}
	return reg, nil
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (remote.Session, error) {
	s, err := b.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, mapError(err)
	}
	return &session{s: s}, nil
}

func (b *Backend) Resume(ctx context.Context, tok *oauth2.Token) (remote.Session, error) {
	if tok == nil {
		return nil, remote.ErrSessionExpired
	}
	tok = withExpiry(tok)
	s, err := b.client.ResumeSession(ctx, tok)
	if err != nil {
		return nil, mapError(err)
	}
	return &session{s: s}, nil
}

// withExpiry fills a missing expiry from the access token's exp claim, so
// the refreshing token source renews it on time instead of trusting it
// forever.
func withExpiry(tok *oauth2.Token) *oauth2.Token {
	if !tok.Expiry.IsZero() {
		return tok
	}
	claims, err := jwtx.ParseUnverified(tok.AccessToken)
	if err != nil {
		return tok
	}
	exp := claims.Expiry()
	if exp.IsZero() {
		return tok
	}
	out := *tok
	out.Expiry = exp
	return &out
}

func identityOf(u baas.User) remote.Identity {
	return remote.Identity{ID: u.ID, Email: u.Email}
}

// mapError translates API errors into the remote sentinels, keeping the
// original error in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var sentinel error
	switch {
	case errors.Is(err, baas.ErrNoSession):
		sentinel = remote.ErrSessionExpired
	case baas.IsCode(err, baas.ErrorCodeInvalidGrant), baas.IsCode(err, baas.ErrorCodeInvalidCredentials):
		sentinel = remote.ErrInvalidCredentials
	case baas.IsCode(err, baas.ErrorCodeUserAlreadyExists), baas.IsCode(err, baas.ErrorCodeUniqueViolation):
		sentinel = remote.ErrAlreadyRegistered
	case baas.IsCode(err, baas.ErrorCodeUserNotFound):
		sentinel = remote.ErrUserDeleted
	case baas.IsCode(err, baas.ErrorCodeSessionNotFound), baas.IsCode(err, baas.ErrorCodeBadJWT),
		baas.IsStatus(err, http.StatusUnauthorized):
		sentinel = remote.ErrSessionExpired
	case baas.IsCode(err, baas.ErrorCodeNoRows), baas.IsStatus(err, http.StatusNotFound):
		sentinel = remote.ErrNotFound
	case baas.IsStatus(err, http.StatusForbidden):
		sentinel = remote.ErrForbidden
	default:
		return err
	}
	return errors.Join(sentinel, err)
}
