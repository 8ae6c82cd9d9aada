// Package memory is an in-process remote.Backend. It issues real HS256
// access tokens with rotating refresh tokens, scopes every row operation to
// the token subject the way row level security would, and lets tests inject
// failures per operation.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/pkg/cryptox"
	"github.com/ParamD12/taskhub-app/pkg/idx"
	"github.com/ParamD12/taskhub-app/pkg/jwtx"
	"golang.org/x/oauth2"
)

// Op names an injectable operation.
type Op string

const (
	OpSignUp         Op = "sign_up"
	OpSignIn         Op = "sign_in"
	OpResume         Op = "resume"
	OpRefresh        Op = "refresh"
	OpSignOut        Op = "sign_out"
	OpUpdatePassword Op = "update_password"
	OpListTasks      Op = "list_tasks"
	OpInsertTask     Op = "insert_task"
	OpUpdateTask     Op = "update_task"
	OpDeleteTask     Op = "delete_task"
	OpGetProfile     Op = "get_profile"
	OpUpsertProfile  Op = "upsert_profile"
	OpUpdateName     Op = "update_name"
	OpPing           Op = "ping"
)

const issuer = "taskhub-memory"

type Options struct {
	// Secret signs access tokens. A random secret is generated when empty.
	Secret []byte

	AccessTTL time.Duration

	// RequireConfirmation makes SignUp return no session.
	RequireConfirmation bool

	Now func() time.Time
}

type account struct {
	identity     remote.Identity
	passwordHash string
}

// Backend holds accounts, sessions and rows in memory.
type Backend struct {
	signer    *jwtx.HS256
	accessTTL time.Duration
	confirm   bool
	now       func() time.Time
	events    chan remote.Event

	mu       sync.Mutex
	byEmail  map[string]*account
	byID     map[string]*account
	sessions map[string]string // session id -> user id
	refresh  map[string]string // refresh token fingerprint -> session id
	profiles map[string]domain.User
	tasks    map[string]domain.Task
	failures map[Op]error
	calls    map[Op]int

	// Hook, when set, runs before every operation outside the lock. Tests
	// use it to hold a call in flight.
	Hook func(op Op)
}

var _ remote.Backend = (*Backend)(nil)

func New(opts Options) (*Backend, error) {
	secret := opts.Secret
	if len(secret) == 0 {
		s, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return nil, err
		}
		secret = []byte(s)
	}

	signer, err := jwtx.NewHS256(secret, issuer)
	if err != nil {
		return nil, err
	}

	ttl := opts.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Backend{
		signer:    signer,
		accessTTL: ttl,
		confirm:   opts.RequireConfirmation,
		now:       now,
		events:    make(chan remote.Event, 16),
		byEmail:   make(map[string]*account),
		byID:      make(map[string]*account),
		sessions:  make(map[string]string),
		refresh:   make(map[string]string),
		profiles:  make(map[string]domain.User),
		tasks:     make(map[string]domain.Task),
		failures:  make(map[Op]error),
		calls:     make(map[Op]int),
	}, nil
}

// Fail makes every call of op return err until Heal is called.
func (b *Backend) Fail(op Op, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[op] = err
}

func (b *Backend) Heal(op Op) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, op)
}

// Calls reports how many times op was attempted.
func (b *Backend) Calls(op Op) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// enter records the call, runs the hook and returns the injected failure.
func (b *Backend) enter(op Op) error {
	if b.Hook != nil {
		b.Hook(op)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[op]++
	return b.failures[op]
}

func (b *Backend) Events() <-chan remote.Event { return b.events }

func (b *Backend) publish(ev remote.Event) {
	select {
	case b.events <- ev:
	default:
	}
}

func (b *Backend) Ping(ctx context.Context) error {
	if err := b.enter(OpPing); err != nil {
		return err
	}
	return ctx.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (b *Backend) SignUp(ctx context.Context, email, password string) (remote.Registration, error) {
	if err := b.enter(OpSignUp); err != nil {
		return remote.Registration{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return remote.Registration{}, fmt.Errorf("hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := normalizeEmail(email)
	if _, ok := b.byEmail[key]; ok {
		return remote.Registration{}, remote.ErrAlreadyRegistered
	}

	acct := &account{
		identity:     remote.Identity{ID: idx.New().String(), Email: key},
		passwordHash: hash,
	}
	b.byEmail[key] = acct
	b.byID[acct.identity.ID] = acct

	reg := remote.Registration{Identity: acct.identity}
	if b.confirm {
		return reg, nil
	}

	tok, err := b.issueLocked(acct.identity)
	if err != nil {
		return remote.Registration{}, err
	}
	reg.Session = b.newSession(acct.identity, tok)
	return reg, nil
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (remote.Session, error) {
	if err := b.enter(OpSignIn); err != nil {
		return nil, err
	}

	b.mu.Lock()
	acct, ok := b.byEmail[normalizeEmail(email)]
	b.mu.Unlock()
	if !ok {
		return nil, remote.ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, acct.passwordHash); err != nil {
		return nil, remote.ErrInvalidCredentials
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tok, err := b.issueLocked(acct.identity)
	if err != nil {
		return nil, err
	}
	return b.newSession(acct.identity, tok), nil
}

func (b *Backend) Resume(ctx context.Context, tok *oauth2.Token) (remote.Session, error) {
	if err := b.enter(OpResume); err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, remote.ErrSessionExpired
	}

	if !tok.Valid() {
		fresh, err := b.refreshToken(tok.RefreshToken)
		if err != nil {
			return nil, err
		}
		tok = fresh
	}

	claims, err := b.verify(tok.AccessToken)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	acct, ok := b.byID[claims.Subject]
	b.mu.Unlock()
	if !ok {
		return nil, remote.ErrUserDeleted
	}
	return b.newSession(acct.identity, tok), nil
}

// issueLocked mints an access and refresh token pair for a new session.
func (b *Backend) issueLocked(id remote.Identity) (*oauth2.Token, error) {
	sessionID := idx.New().String()
	b.sessions[sessionID] = id.ID
	return b.mintLocked(id, sessionID)
}

func (b *Backend) mintLocked(id remote.Identity, sessionID string) (*oauth2.Token, error) {
	now := b.now()
	access, err := b.signer.Sign(jwtx.NewAccessClaims(id.ID, id.Email, sessionID, issuer, b.accessTTL, now))
	if err != nil {
		return nil, err
	}
	refresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	b.refresh[cryptox.FingerprintToken(refresh)] = sessionID

	return &oauth2.Token{
		AccessToken:  access,
		TokenType:    "bearer",
		RefreshToken: refresh,
		Expiry:       now.Add(b.accessTTL),
	}, nil
}

// refreshToken rotates a refresh token. Each refresh token is single use.
func (b *Backend) refreshToken(refresh string) (*oauth2.Token, error) {
	if err := b.enter(OpRefresh); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	fp := cryptox.FingerprintToken(refresh)
	sessionID, ok := b.refresh[fp]
	if !ok {
		return nil, remote.ErrSessionExpired
	}
	delete(b.refresh, fp)

	userID, ok := b.sessions[sessionID]
	if !ok {
		return nil, remote.ErrSessionExpired
	}
	acct, ok := b.byID[userID]
	if !ok {
		return nil, remote.ErrUserDeleted
	}
	return b.mintLocked(acct.identity, sessionID)
}

// verify checks the token signature and that its session is still alive.
func (b *Backend) verify(access string) (jwtx.Claims, error) {
	claims, err := b.signer.Verify(access)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return jwtx.Claims{}, remote.ErrSessionExpired
		}
		return jwtx.Claims{}, fmt.Errorf("%w: %v", remote.ErrSessionExpired, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sessions[claims.SessionID]; !ok {
		return jwtx.Claims{}, remote.ErrSessionExpired
	}
	if _, ok := b.byID[claims.Subject]; !ok {
		return jwtx.Claims{}, remote.ErrUserDeleted
	}
	return claims, nil
}

// RevokeSessions ends every session of userID, as an administrator or
// another device would, and publishes EventSignedOut.
func (b *Backend) RevokeSessions(userID string) {
	b.mu.Lock()
	for sid, uid := range b.sessions {
		if uid == userID {
			delete(b.sessions, sid)
		}
	}
	b.mu.Unlock()

	b.publish(remote.Event{Kind: remote.EventSignedOut, UserID: userID})
}

// DeleteUser removes the account with its rows and publishes
// EventUserDeleted.
func (b *Backend) DeleteUser(userID string) {
	b.mu.Lock()
	if acct, ok := b.byID[userID]; ok {
		delete(b.byEmail, acct.identity.Email)
		delete(b.byID, userID)
	}
	delete(b.profiles, userID)
	for id, t := range b.tasks {
		if t.UserID == userID {
			delete(b.tasks, id)
		}
	}
	b.mu.Unlock()

	b.publish(remote.Event{Kind: remote.EventUserDeleted, UserID: userID})
}

// SeedTask stores t as is, bypassing ownership checks. Tests use it to
// plant rows, including rows of other users.
func (b *Backend) SeedTask(t domain.Task) domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t.ID == "" {
		t.ID = idx.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = b.now()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	b.tasks[t.ID] = t
	return t
}

// Profile returns the stored profile, bypassing ownership checks.
func (b *Backend) Profile(userID string) (domain.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.profiles[userID]
	return u, ok
}

// Task returns the stored task, bypassing ownership checks.
func (b *Backend) Task(id string) (domain.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tasks[id]
	return t, ok
}
