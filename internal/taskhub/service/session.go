package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/loop"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store"
	"github.com/ParamD12/taskhub-app/pkg/cryptox"
	"golang.org/x/oauth2"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// SessionView is a point in time copy of the session state.
type SessionView struct {
	Status domain.SessionStatus
	User   *domain.User
}

// Authenticated reports whether a user is signed in.
func (v SessionView) Authenticated() bool {
	return v.Status == domain.SessionAuthenticated && v.User != nil
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
	DOB      string
}

type ProfileInput struct {
	Name            string
	Password        string
	ConfirmPassword string
}

// SessionService tracks the signed in user and owns the remote session.
type SessionService struct {
	loop     *loop.Loop
	backend  remote.Backend
	store    store.Store
	sealer   *cryptox.Sealer
	tasks    *TaskService
	notifier *Notifier
	logger   *slog.Logger
	opts     Options

	// ready is closed once the status leaves loading.
	ready chan struct{}

	// Owned by the loop.
	status domain.SessionStatus
	user   *domain.User
	sess   remote.Session
	epoch  uint64
}

func NewSessionService(
	l *loop.Loop,
	backend remote.Backend,
	st store.Store,
	sealer *cryptox.Sealer,
	tasks *TaskService,
	n *Notifier,
	logger *slog.Logger,
	opts Options,
) *SessionService {
	return &SessionService{
		loop:     l,
		backend:  backend,
		store:    st,
		sealer:   sealer,
		tasks:    tasks,
		notifier: n,
		logger:   logger,
		opts:     opts.withDefaults(),
		ready:    make(chan struct{}),
		status:   domain.SessionLoading,
	}
}

// settle moves the state machine. Runs on the loop.
func (s *SessionService) settle(status domain.SessionStatus, user *domain.User, sess remote.Session) {
	if s.status == domain.SessionLoading && status != domain.SessionLoading {
		close(s.ready)
	}
	s.status = status
	s.user = user
	s.sess = sess
	s.epoch++
}

func (s *SessionService) view() SessionView {
	v := SessionView{Status: s.status}
	if s.user != nil {
		u := *s.user
		v.User = &u
	}
	return v
}

// Current returns the session state without waiting for restoration.
func (s *SessionService) Current(ctx context.Context) (SessionView, error) {
	return loop.Call(ctx, s.loop, func() (SessionView, error) { return s.view(), nil })
}

// WaitReady waits for session restoration to finish. It gives up with
// ErrLoadingTimeout after the loading timeout; the caller may retry.
func (s *SessionService) WaitReady(ctx context.Context) (SessionView, error) {
	wctx, cancel := context.WithTimeout(ctx, s.opts.LoadingTimeout)
	defer cancel()

	select {
	case <-s.ready:
	case <-wctx.Done():
		if ctx.Err() != nil {
			return SessionView{}, ctx.Err()
		}
		return SessionView{Status: domain.SessionLoading}, ErrLoadingTimeout
	}
	return s.Current(ctx)
}

// Restore resumes the persisted session, if any. Any failure leaves the
// client anonymous and clears the persisted state.
func (s *SessionService) Restore(ctx context.Context) (SessionView, error) {
	sess, user, persistedID, err := s.resume(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Info("session not restored", "error", err)
			s.purge(ctx, persistedID)
		}
		return loop.Call(ctx, s.loop, func() (SessionView, error) {
			if s.status == domain.SessionLoading {
				s.settle(domain.SessionAnonymous, nil, nil)
			}
			return s.view(), nil
		})
	}

	view, err := loop.Call(context.WithoutCancel(ctx), s.loop, func() (SessionView, error) {
		if s.status != domain.SessionLoading {
			return s.view(), errSuperseded
		}
		s.settle(domain.SessionAuthenticated, &user, sess)
		return s.view(), nil
	})
	if errors.Is(err, errSuperseded) {
		s.logger.Info("restored session superseded by a newer sign in", "user_id", user.ID)
		s.abandon(ctx, sess)
		return view, nil
	}
	if err != nil {
		return view, err
	}

	s.persist(ctx, sess)
	if err := s.tasks.Open(ctx, sess); err != nil {
		return view, err
	}
	s.logger.Info("session restored", "user_id", user.ID)
	return view, nil
}

var errSuperseded = errors.New("session superseded")

// resume rebuilds the persisted session. It also returns the user id of
// the persisted record, when one was read, so a failure can clear it.
func (s *SessionService) resume(ctx context.Context) (remote.Session, domain.User, string, error) {
	if s.store == nil || s.sealer == nil {
		return nil, domain.User{}, "", store.ErrNotFound
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	rec, err := s.store.Sessions().Load(sctx)
	cancel()
	if err != nil {
		return nil, domain.User{}, "", err
	}

	plain, err := s.sealer.Open(rec.Sealed, []byte(rec.UserID))
	if err != nil {
		return nil, domain.User{}, rec.UserID, fmt.Errorf("open persisted session: %w", err)
	}
	var ps domain.PersistedSession
	if err := json.Unmarshal(plain, &ps); err != nil {
		return nil, domain.User{}, rec.UserID, fmt.Errorf("decode persisted session: %w", err)
	}

	rctx, rcancel := s.opts.remoteContext(ctx)
	defer rcancel()

	sess, err := s.backend.Resume(rctx, ps.Token)
	if err != nil {
		return nil, domain.User{}, rec.UserID, fmt.Errorf("resume session: %w", err)
	}
	if sess.Identity().ID != rec.UserID {
		s.abandon(ctx, sess)
		return nil, domain.User{}, rec.UserID, errors.New("resume session: identity changed")
	}

	user, err := sess.Profiles().Get(rctx, rec.UserID)
	if err != nil {
		return nil, domain.User{}, rec.UserID, fmt.Errorf("%w: %w", ErrProfileMissing, err)
	}
	user.Email = sess.Identity().Email
	return sess, user, rec.UserID, nil
}

// persist seals and stores the session token.
func (s *SessionService) persist(ctx context.Context, sess remote.Session) {
	tok, err := sess.Token()
	if err != nil {
		s.logger.Warn("session token unavailable", "error", err)
		return
	}
	s.persistToken(ctx, sess.Identity(), tok)
}

func (s *SessionService) persistToken(ctx context.Context, id remote.Identity, tok *oauth2.Token) {
	if s.store == nil || s.sealer == nil || tok == nil {
		return
	}
	now := s.opts.Now()

	plain, err := json.Marshal(domain.PersistedSession{UserID: id.ID, Email: id.Email, Token: tok, UpdatedAt: now})
	if err != nil {
		s.logger.Error("failed to encode session", "error", err)
		return
	}
	sealed, err := s.sealer.Seal(plain, []byte(id.ID))
	if err != nil {
		s.logger.Error("failed to seal session", "error", err)
		return
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	if err := s.store.Sessions().Save(sctx, store.SessionRecord{UserID: id.ID, Sealed: sealed, UpdatedAt: now}); err != nil {
		s.logger.Warn("failed to persist session", "user_id", id.ID, "error", err)
	}
}

// purge clears locally persisted state. An empty userID clears only the
// session slot.
func (s *SessionService) purge(ctx context.Context, userID string) {
	if s.store == nil {
		return
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	var err error
	if userID == "" {
		err = s.store.Sessions().Delete(sctx)
	} else {
		err = s.store.Purge(sctx, userID)
	}
	if err != nil {
		s.logger.Warn("failed to clear local state", "user_id", userID, "error", err)
	}
}

func validateSignUp(in SignUpInput) (SignUpInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.DOB = strings.TrimSpace(in.DOB)

	v := validator{}
	v.check(in.Name != "", "name", "Name is required")
	v.check(in.Email != "", "email", "Email is required")
	v.check(emailPattern.MatchString(in.Email), "email", "Email is invalid")
	v.check(in.Password != "", "password", "Password is required")
	v.check(len(in.Password) >= minPasswordLength, "password", "Password must be at least 6 characters")
	v.check(in.DOB != "", "dob", "Date of birth is required")
	if in.DOB != "" {
		_, err := domain.ParseDate(in.DOB)
		v.check(err == nil, "dob", "Date of birth must be YYYY-MM-DD")
	}
	return in, v.err()
}

// SignUp creates the identity and its profile. It never signs the client
// in. When the profile write cannot complete it is kept as a pending
// profile and written on the user's next sign in.
func (s *SessionService) SignUp(ctx context.Context, in SignUpInput) (remote.Identity, error) {
	in, err := validateSignUp(in)
	if err != nil {
		return remote.Identity{}, err
	}
	dob, _ := domain.ParseDate(in.DOB)

	rctx, cancel := s.opts.remoteContext(ctx)
	reg, err := s.backend.SignUp(rctx, in.Email, in.Password)
	cancel()
	if err != nil {
		s.notifier.Error(authMessage(err, "Registration failed"))
		return remote.Identity{}, fmt.Errorf("sign up: %w", err)
	}

	profile := domain.User{ID: reg.Identity.ID, Name: in.Name, Email: in.Email, DOB: dob}

	written := false
	if reg.Session != nil {
		err := s.opts.retry(ctx, func(ctx context.Context) error {
			_, err := reg.Session.Profiles().Upsert(ctx, profile)
			return err
		})
		if err != nil {
			s.logger.Warn("profile write failed after sign up", "user_id", profile.ID, "error", err)
		} else {
			written = true
		}

		sctx, scancel := s.opts.remoteContext(ctx)
		if err := reg.Session.SignOut(sctx); err != nil {
			s.logger.Debug("sign up session sign out failed", "error", err)
		}
		scancel()
	}

	if !written {
		s.savePending(ctx, profile)
	}

	s.notifier.Success("Account created successfully! Please sign in.")
	return reg.Identity, nil
}

func (s *SessionService) savePending(ctx context.Context, u domain.User) {
	if s.store == nil {
		s.logger.Error("profile lost, no state store for pending profiles", "user_id", u.ID)
		return
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	p := domain.PendingProfile{UserID: u.ID, Name: u.Name, Email: u.Email, DOB: u.DOB, CreatedAt: s.opts.Now()}
	if err := s.store.PendingProfiles().Save(sctx, p); err != nil {
		s.logger.Error("failed to save pending profile", "user_id", u.ID, "error", err)
		return
	}
	s.logger.Info("profile pending until next sign in", "user_id", u.ID)
}

func (s *SessionService) loadPending(ctx context.Context, userID string) (domain.PendingProfile, bool) {
	if s.store == nil {
		return domain.PendingProfile{}, false
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	p, err := s.store.PendingProfiles().Load(sctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to load pending profile", "user_id", userID, "error", err)
		}
		return domain.PendingProfile{}, false
	}
	return p, true
}

func (s *SessionService) deletePending(ctx context.Context, userID string) {
	if s.store == nil {
		return
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	if err := s.store.PendingProfiles().Delete(sctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("failed to delete pending profile", "user_id", userID, "error", err)
	}
}

// loadProfile fetches the profile of the signed in identity, completing a
// pending profile when the remote one is missing.
func (s *SessionService) loadProfile(ctx context.Context, sess remote.Session) (domain.User, error) {
	id := sess.Identity()
	pending, hasPending := s.loadPending(ctx, id.ID)

	rctx, cancel := s.opts.remoteContext(ctx)
	user, err := sess.Profiles().Get(rctx, id.ID)
	cancel()

	switch {
	case err == nil:
		if hasPending {
			s.deletePending(ctx, id.ID)
		}
	case errors.Is(err, remote.ErrNotFound) && hasPending:
		err = s.opts.retry(ctx, func(ctx context.Context) error {
			var err error
			user, err = sess.Profiles().Upsert(ctx, domain.User{ID: id.ID, Name: pending.Name, Email: pending.Email, DOB: pending.DOB})
			return err
		})
		if err != nil {
			return domain.User{}, fmt.Errorf("complete pending profile: %w", err)
		}
		s.deletePending(ctx, id.ID)
		s.logger.Info("pending profile completed", "user_id", id.ID)
	default:
		return domain.User{}, fmt.Errorf("%w: %w", ErrProfileMissing, err)
	}

	user.Email = id.Email
	return user, nil
}

// SignIn establishes a session, loads the profile, persists the session and
// opens the task cache.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (SessionView, error) {
	email = strings.TrimSpace(email)
	v := validator{}
	v.check(email != "", "email", "Email is required")
	v.check(password != "", "password", "Password is required")
	if err := v.err(); err != nil {
		return SessionView{}, err
	}

	signedIn, err := loop.Call(ctx, s.loop, func() (bool, error) { return s.sess != nil, nil })
	if err != nil {
		return SessionView{}, err
	}
	if signedIn {
		return SessionView{}, ErrAlreadyAuthenticated
	}

	rctx, cancel := s.opts.remoteContext(ctx)
	sess, err := s.backend.SignIn(rctx, email, password)
	cancel()
	if err != nil {
		s.notifier.Error(authMessage(err, "Sign in failed"))
		return SessionView{}, fmt.Errorf("sign in: %w", err)
	}

	user, err := s.loadProfile(ctx, sess)
	if err != nil {
		s.abandon(ctx, sess)
		s.notifier.Error(authMessage(err, "Sign in failed"))
		return SessionView{}, err
	}

	view, err := loop.Call(context.WithoutCancel(ctx), s.loop, func() (SessionView, error) {
		if s.sess != nil {
			return SessionView{}, ErrAlreadyAuthenticated
		}
		s.settle(domain.SessionAuthenticated, &user, sess)
		return s.view(), nil
	})
	if err != nil {
		s.abandon(ctx, sess)
		return SessionView{}, err
	}

	s.persist(ctx, sess)
	if err := s.tasks.Open(ctx, sess); err != nil {
		return view, err
	}

	s.logger.Info("signed in", "user_id", user.ID)
	s.notifier.Success("Signed in successfully!")
	return view, nil
}

// abandon signs out a session that never became current.
func (s *SessionService) abandon(ctx context.Context, sess remote.Session) {
	rctx, cancel := s.opts.remoteContext(ctx)
	defer cancel()
	if err := sess.SignOut(rctx); err != nil {
		s.logger.Debug("abandoned session sign out failed", "error", err)
	}
}

// SignOut ends the remote session and clears every locally held trace of
// the user. Local state is cleared even when the remote call fails.
func (s *SessionService) SignOut(ctx context.Context) error {
	type ended struct {
		sess remote.Session
		user domain.User
	}
	e, err := loop.Call(ctx, s.loop, func() (ended, error) {
		if s.sess == nil || s.user == nil {
			return ended{}, ErrNotAuthenticated
		}
		e := ended{sess: s.sess, user: *s.user}
		s.settle(domain.SessionAnonymous, nil, nil)
		return e, nil
	})
	if err != nil {
		return err
	}

	if err := s.tasks.Close(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("failed to close task cache", "error", err)
	}
	s.purge(ctx, e.user.ID)

	rctx, cancel := s.opts.remoteContext(ctx)
	defer cancel()
	if err := e.sess.SignOut(rctx); err != nil {
		s.logger.Warn("remote sign out failed", "user_id", e.user.ID, "error", err)
	}

	s.logger.Info("signed out", "user_id", e.user.ID)
	s.notifier.Success("Signed out successfully")
	return nil
}

func validateProfile(in ProfileInput) (ProfileInput, error) {
	in.Name = strings.TrimSpace(in.Name)

	v := validator{}
	v.check(in.Name != "", "name", "Name is required")
	if in.Password != "" {
		v.check(len(in.Password) >= minPasswordLength, "password", "Password must be at least 6 characters")
		v.check(in.Password == in.ConfirmPassword, "confirm_password", "Passwords do not match")
	}
	return in, v.err()
}

// UpdateProfile changes the password, when given, then the profile name.
// The local user changes only after both remote writes succeed.
func (s *SessionService) UpdateProfile(ctx context.Context, in ProfileInput) (domain.User, error) {
	in, err := validateProfile(in)
	if err != nil {
		return domain.User{}, err
	}

	type bound struct {
		sess  remote.Session
		user  domain.User
		epoch uint64
	}
	b, err := loop.Call(ctx, s.loop, func() (bound, error) {
		if s.sess == nil || s.user == nil {
			return bound{}, ErrNotAuthenticated
		}
		return bound{sess: s.sess, user: *s.user, epoch: s.epoch}, nil
	})
	if err != nil {
		return domain.User{}, err
	}

	rctx, cancel := s.opts.remoteContext(ctx)
	defer cancel()

	if in.Password != "" {
		if err := b.sess.UpdatePassword(rctx, in.Password); err != nil {
			s.notifier.Error(authMessage(err, "Profile update failed"))
			return domain.User{}, fmt.Errorf("update password: %w", err)
		}
	}

	updated, err := b.sess.Profiles().UpdateName(rctx, b.user.ID, in.Name)
	if err != nil {
		s.notifier.Error(authMessage(err, "Profile update failed"))
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	return loop.Call(context.WithoutCancel(ctx), s.loop, func() (domain.User, error) {
		if s.epoch != b.epoch {
			s.logger.Info("dropping profile update for ended session", "user_id", b.user.ID)
			return domain.User{}, ErrNotAuthenticated
		}
		u := *s.user
		u.Name = updated.Name
		s.user = &u
		s.notifier.Success("Profile updated successfully")
		return u, nil
	})
}

// Run consumes identity events until ctx ends. It must be the only reader
// of the backend's event channel.
func (s *SessionService) Run(ctx context.Context) {
	events := s.backend.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(ctx, ev)
		}
	}
}

func (s *SessionService) handleEvent(ctx context.Context, ev remote.Event) {
	type match struct {
		current bool
		sess    remote.Session
	}
	end := ev.Kind == remote.EventSignedOut || ev.Kind == remote.EventUserDeleted

	m, err := loop.Call(ctx, s.loop, func() (match, error) {
		if s.user == nil || s.user.ID != ev.UserID {
			return match{}, nil
		}
		m := match{current: true, sess: s.sess}
		if end {
			s.settle(domain.SessionAnonymous, nil, nil)
		}
		return m, nil
	})
	if err != nil || !m.current {
		return
	}

	switch ev.Kind {
	case remote.EventTokenRefreshed:
		s.persistToken(ctx, m.sess.Identity(), ev.Token)
		s.logger.Debug("session token refreshed", "user_id", ev.UserID)
	case remote.EventSignedOut, remote.EventUserDeleted:
		if err := s.tasks.Close(ctx); err != nil {
			s.logger.Warn("failed to close task cache", "error", err)
		}
		s.purge(ctx, ev.UserID)
		s.logger.Info("session ended remotely", "user_id", ev.UserID, "event", ev.Kind)
		s.notifier.Info("Your session has ended. Please sign in again.")
	}
}

// authMessage maps a failure to the message shown to the user.
func authMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, remote.ErrInvalidCredentials):
		return "Invalid login credentials"
	case errors.Is(err, remote.ErrAlreadyRegistered):
		return "User already registered"
	case errors.Is(err, ErrProfileMissing):
		return "Failed to fetch user profile"
	case errors.Is(err, remote.ErrSessionExpired):
		return "Your session has expired. Please sign in again."
	default:
		return fallback
	}
}
