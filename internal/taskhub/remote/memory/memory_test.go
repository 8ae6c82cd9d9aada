package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote/memory"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, opts memory.Options) *memory.Backend {
	t.Helper()
	b, err := memory.New(opts)
	require.NoError(t, err)
	return b
}

func signUpAndIn(t *testing.T, b *memory.Backend, email string) remote.Session {
	t.Helper()
	ctx := context.Background()

	_, err := b.SignUp(ctx, email, "secret1")
	require.NoError(t, err)
	s, err := b.SignIn(ctx, email, "secret1")
	require.NoError(t, err)
	return s
}

func TestSignUpAndSignIn(t *testing.T) {
	t.Parallel()
	b := newBackend(t, memory.Options{})
	ctx := context.Background()

	reg, err := b.SignUp(ctx, "Alice@Example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, reg.Identity.ID)
	require.Equal(t, "alice@example.com", reg.Identity.Email)
	require.NotNil(t, reg.Session)

	_, err = b.SignUp(ctx, "alice@example.com", "other12")
	require.ErrorIs(t, err, remote.ErrAlreadyRegistered)

	_, err = b.SignIn(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, remote.ErrInvalidCredentials)

	_, err = b.SignIn(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, remote.ErrInvalidCredentials)

	s, err := b.SignIn(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, reg.Identity.ID, s.Identity().ID)
}

func TestRequireConfirmation(t *testing.T) {
	t.Parallel()
	b := newBackend(t, memory.Options{RequireConfirmation: true})

	reg, err := b.SignUp(context.Background(), "bob@example.com", "secret1")
	require.NoError(t, err)
	require.Nil(t, reg.Session)
}

func TestTasksAreScopedAndOrdered(t *testing.T) {
	t.Parallel()
	b := newBackend(t, memory.Options{})
	ctx := context.Background()

	alice := signUpAndIn(t, b, "alice@example.com")
	aliceID := alice.Identity().ID

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.SeedTask(domain.Task{ID: "old", UserID: aliceID, Name: "old", Status: domain.StatusIncomplete, CreatedAt: base})
	b.SeedTask(domain.Task{ID: "new", UserID: aliceID, Name: "new", Status: domain.StatusIncomplete, CreatedAt: base.Add(time.Hour)})
	b.SeedTask(domain.Task{ID: "foreign", UserID: "someone-else", Name: "x", CreatedAt: base.Add(2 * time.Hour)})

	list, err := alice.Tasks().List(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "new", list[0].ID)
	require.Equal(t, "old", list[1].ID)

	t.Run("cannot read another user's rows", func(t *testing.T) {
		list, err := alice.Tasks().List(ctx, "someone-else")
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("cannot insert for another user", func(t *testing.T) {
		_, err := alice.Tasks().Insert(ctx, domain.NewTask{UserID: "someone-else", Name: "x"})
		require.ErrorIs(t, err, remote.ErrForbidden)
	})

	t.Run("cannot touch another user's row", func(t *testing.T) {
		name := "hijack"
		_, err := alice.Tasks().Update(ctx, aliceID, "foreign", domain.TaskPatch{Name: &name})
		require.ErrorIs(t, err, remote.ErrNotFound)
		require.ErrorIs(t, alice.Tasks().Delete(ctx, aliceID, "foreign"), remote.ErrNotFound)
	})
}

func TestTaskCRUD(t *testing.T) {
	t.Parallel()
	b := newBackend(t, memory.Options{})
	ctx := context.Background()

	s := signUpAndIn(t, b, "carol@example.com")
	uid := s.Identity().ID

	created, err := s.Tasks().Insert(ctx, domain.NewTask{UserID: uid, Name: "milk"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusIncomplete, created.Status)
	require.False(t, created.CreatedAt.IsZero())

	status := domain.StatusComplete
	updated, err := s.Tasks().Update(ctx, uid, created.ID, domain.TaskPatch{Status: &status})
	require.NoError(t, err)
	require.Equal(t, domain.StatusComplete, updated.Status)
	require.Equal(t, "milk", updated.Name)

	require.NoError(t, s.Tasks().Delete(ctx, uid, created.ID))
	require.ErrorIs(t, s.Tasks().Delete(ctx, uid, created.ID), remote.ErrNotFound)
}

func TestProfiles(t *testing.T) {
	t.Parallel()
	b := newBackend(t, memory.Options{})
	ctx := context.Background()

	s := signUpAndIn(t, b, "dave@example.com")
	uid := s.Identity().ID

	_, err := s.Profiles().Get(ctx, uid)
	require.ErrorIs(t, err, remote.ErrNotFound)

	u := domain.User{ID: uid, Name: "Dave", Email: "dave@example.com"}
	_, err = s.Profiles().Upsert(ctx, u)
	require.NoError(t, err)
	_, err = s.Profiles().Upsert(ctx, u)
	require.NoError(t, err, "upsert is idempotent")

	got, err := s.Profiles().UpdateName(ctx, uid, "David")
	require.NoError(t, err)
	require.Equal(t, "David", got.Name)

	_, err = s.Profiles().Upsert(ctx, domain.User{ID: "someone-else"})
	require.ErrorIs(t, err, remote.ErrForbidden)
}

func TestFailureInjection(t *testing.T) {
	t.Parallel()
	b := newBackend(t, memory.Options{})
	ctx := context.Background()
	s := signUpAndIn(t, b, "erin@example.com")

	boom := errors.New("boom")
	b.Fail(memory.OpInsertTask, boom)

	_, err := s.Tasks().Insert(ctx, domain.NewTask{UserID: s.Identity().ID, Name: "x"})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, b.Calls(memory.OpInsertTask))

	b.Heal(memory.OpInsertTask)
	_, err = s.Tasks().Insert(ctx, domain.NewTask{UserID: s.Identity().ID, Name: "x"})
	require.NoError(t, err)
}

func TestTokenRefreshAndResume(t *testing.T) {
	t.Parallel()
	b := newBackend(t, memory.Options{AccessTTL: time.Millisecond})
	ctx := context.Background()

	s := signUpAndIn(t, b, "frank@example.com")
	first, err := s.Token()
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	second, err := s.Token()
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	ev := <-b.Events()
	require.Equal(t, remote.EventTokenRefreshed, ev.Kind)

	t.Run("rotated refresh token is single use", func(t *testing.T) {
		_, err := b.Resume(ctx, first)
		require.ErrorIs(t, err, remote.ErrSessionExpired)
	})
}

func TestResume(t *testing.T) {
	t.Parallel()
	b := newBackend(t, memory.Options{})
	ctx := context.Background()

	s := signUpAndIn(t, b, "gina@example.com")
	tok, err := s.Token()
	require.NoError(t, err)

	resumed, err := b.Resume(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, s.Identity(), resumed.Identity())

	require.NoError(t, resumed.SignOut(ctx))
	_, err = b.Resume(ctx, tok)
	require.ErrorIs(t, err, remote.ErrSessionExpired)
}

func TestDeleteUserPublishesEvent(t *testing.T) {
	t.Parallel()
	b := newBackend(t, memory.Options{})
	ctx := context.Background()

	s := signUpAndIn(t, b, "hank@example.com")
	tok, err := s.Token()
	require.NoError(t, err)

	b.DeleteUser(s.Identity().ID)

	ev := <-b.Events()
	require.Equal(t, remote.EventUserDeleted, ev.Kind)

	_, err = b.Resume(ctx, tok)
	require.ErrorIs(t, err, remote.ErrUserDeleted)
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()
	b := newBackend(t, memory.Options{})
	ctx := context.Background()

	s := signUpAndIn(t, b, "ivy@example.com")
	require.NoError(t, s.UpdatePassword(ctx, "newpass"))

	_, err := b.SignIn(ctx, "ivy@example.com", "secret1")
	require.ErrorIs(t, err, remote.ErrInvalidCredentials)
	_, err = b.SignIn(ctx, "ivy@example.com", "newpass")
	require.NoError(t, err)
}
