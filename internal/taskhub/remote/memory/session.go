package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/pkg/cryptox"
	"github.com/ParamD12/taskhub-app/pkg/idx"
	"golang.org/x/oauth2"
)

type session struct {
	b        *Backend
	identity remote.Identity

	mu     sync.Mutex
	tok    *oauth2.Token
	closed bool
}

func (b *Backend) newSession(id remote.Identity, tok *oauth2.Token) *session {
	return &session{b: b, identity: id, tok: tok}
}

func (s *session) Identity() remote.Identity { return s.identity }

// Token returns the current token, rotating it when the access token has
// expired.
func (s *session) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, remote.ErrSessionExpired
	}
	if s.tok.Valid() {
		return s.tok, nil
	}

	fresh, err := s.b.refreshToken(s.tok.RefreshToken)
	if err != nil {
		if errors.Is(err, remote.ErrSessionExpired) {
			s.b.publish(remote.Event{Kind: remote.EventSignedOut, UserID: s.identity.ID})
		}
		return nil, err
	}
	s.tok = fresh
	s.b.publish(remote.Event{Kind: remote.EventTokenRefreshed, UserID: s.identity.ID, Token: fresh})
	return fresh, nil
}

// subject authorizes the caller and returns the token subject.
func (s *session) subject() (string, error) {
	tok, err := s.Token()
	if err != nil {
		return "", err
	}
	claims, err := s.b.verify(tok.AccessToken)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *session) UpdatePassword(ctx context.Context, password string) error {
	if err := s.b.enter(OpUpdatePassword); err != nil {
		return err
	}
	sub, err := s.subject()
	if err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	acct, ok := s.b.byID[sub]
	if !ok {
		return remote.ErrUserDeleted
	}
	acct.passwordHash = hash
	return nil
}

func (s *session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return remote.ErrSessionExpired
	}
	s.closed = true
	tok := s.tok
	s.mu.Unlock()

	if err := s.b.enter(OpSignOut); err != nil {
		return err
	}

	claims, err := s.b.signer.Verify(tok.AccessToken)
	if err != nil {
		return nil
	}
	s.b.mu.Lock()
	delete(s.b.sessions, claims.SessionID)
	s.b.mu.Unlock()
	return nil
}

func (s *session) Tasks() remote.Tasks       { return tasks{s} }
func (s *session) Profiles() remote.Profiles { return profiles{s} }

type tasks struct{ s *session }

func (t tasks) List(ctx context.Context, userID string) ([]domain.Task, error) {
	b := t.s.b
	if err := b.enter(OpListTasks); err != nil {
		return nil, err
	}
	sub, err := t.s.subject()
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.Task, 0)
	if sub != userID {
		return out, nil
	}
	for _, task := range b.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	slices.SortFunc(out, func(x, y domain.Task) int {
		if c := y.CreatedAt.Compare(x.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(y.ID, x.ID)
	})
	return out, nil
}

func (t tasks) Insert(ctx context.Context, nt domain.NewTask) (domain.Task, error) {
	b := t.s.b
	if err := b.enter(OpInsertTask); err != nil {
		return domain.Task{}, err
	}
	sub, err := t.s.subject()
	if err != nil {
		return domain.Task{}, err
	}
	if nt.UserID != sub {
		return domain.Task{}, remote.ErrForbidden
	}

	status := nt.Status
	if status == "" {
		status = domain.StatusIncomplete
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	task := domain.Task{
		ID:        idx.NewAt(now).String(),
		UserID:    nt.UserID,
		Name:      nt.Name,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.tasks[task.ID] = task
	return task, nil
}

func (t tasks) Update(ctx context.Context, userID, id string, p domain.TaskPatch) (domain.Task, error) {
	b := t.s.b
	if err := b.enter(OpUpdateTask); err != nil {
		return domain.Task{}, err
	}
	sub, err := t.s.subject()
	if err != nil {
		return domain.Task{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	task, ok := b.tasks[id]
	if !ok || task.UserID != userID || userID != sub {
		return domain.Task{}, remote.ErrNotFound
	}
	task = p.Apply(task, b.now())
	b.tasks[id] = task
	return task, nil
}

func (t tasks) Delete(ctx context.Context, userID, id string) error {
	b := t.s.b
	if err := b.enter(OpDeleteTask); err != nil {
		return err
	}
	sub, err := t.s.subject()
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	task, ok := b.tasks[id]
	if !ok || task.UserID != userID || userID != sub {
		return remote.ErrNotFound
	}
	delete(b.tasks, id)
	return nil
}

type profiles struct{ s *session }

func (p profiles) Get(ctx context.Context, userID string) (domain.User, error) {
	b := p.s.b
	if err := b.enter(OpGetProfile); err != nil {
		return domain.User{}, err
	}
	sub, err := p.s.subject()
	if err != nil {
		return domain.User{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.profiles[userID]
	if !ok || userID != sub {
		return domain.User{}, remote.ErrNotFound
	}
	return u, nil
}

func (p profiles) Upsert(ctx context.Context, u domain.User) (domain.User, error) {
	b := p.s.b
	if err := b.enter(OpUpsertProfile); err != nil {
		return domain.User{}, err
	}
	sub, err := p.s.subject()
	if err != nil {
		return domain.User{}, err
	}
	if u.ID != sub {
		return domain.User{}, remote.ErrForbidden
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles[u.ID] = u
	return u, nil
}

func (p profiles) UpdateName(ctx context.Context, userID, name string) (domain.User, error) {
	b := p.s.b
	if err := b.enter(OpUpdateName); err != nil {
		return domain.User{}, err
	}
	sub, err := p.s.subject()
	if err != nil {
		return domain.User{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.profiles[userID]
	if !ok || userID != sub {
		return domain.User{}, remote.ErrNotFound
	}
	u.Name = name
	b.profiles[userID] = u
	return u, nil
}
