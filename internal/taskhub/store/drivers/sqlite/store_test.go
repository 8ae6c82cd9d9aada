package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestSessions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Sessions().Load(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.Sessions().Save(ctx, store.SessionRecord{UserID: "u1", Sealed: []byte{1, 2, 3}, UpdatedAt: now}))
	require.NoError(t, s.Sessions().Save(ctx, store.SessionRecord{UserID: "u2", Sealed: []byte{4, 5}, UpdatedAt: now}))

	rec, err := s.Sessions().Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "u2", rec.UserID, "only one session slot exists")
	require.Equal(t, []byte{4, 5}, rec.Sealed)
	require.True(t, now.Equal(rec.UpdatedAt))

	require.NoError(t, s.Sessions().Delete(ctx))
	_, err = s.Sessions().Load(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSnapshots(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	snap := domain.TaskSnapshot{
		UserID: "u1",
		Tasks: []domain.Task{
			{ID: "temp-x", UserID: "u1", Name: "in flight"},
			{ID: "t1", UserID: "u1", Name: "milk", Status: domain.StatusIncomplete, CreatedAt: created, UpdatedAt: created},
		},
		FetchedAt: created,
	}
	require.NoError(t, s.Snapshots().Save(ctx, snap))

	got, err := s.Snapshots().Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	require.Equal(t, "t1", got.Tasks[0].ID)
	require.True(t, created.Equal(got.FetchedAt))

	_, err = s.Snapshots().Load(ctx, "u2")
	require.ErrorIs(t, err, store.ErrNotFound)

	snap.Tasks = nil
	require.NoError(t, s.Snapshots().Save(ctx, snap))
	got, err = s.Snapshots().Load(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, got.Tasks)
}

func TestPendingProfiles(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	dob, err := domain.ParseDate("1990-04-01")
	require.NoError(t, err)

	p := domain.PendingProfile{UserID: "u1", Name: "Alice", Email: "alice@example.com", DOB: dob, CreatedAt: time.Now()}
	require.NoError(t, s.PendingProfiles().Save(ctx, p))

	got, err := s.PendingProfiles().Load(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Alice", got.Name)
	require.Equal(t, "1990-04-01", domain.User{DOB: got.DOB}.DOBString())

	require.NoError(t, s.PendingProfiles().Save(ctx, domain.PendingProfile{UserID: "u2", Name: "Bob", Email: "b@example.com"}))
	got, err = s.PendingProfiles().Load(ctx, "u2")
	require.NoError(t, err)
	require.Nil(t, got.DOB)

	require.NoError(t, s.PendingProfiles().Delete(ctx, "u1"))
	_, err = s.PendingProfiles().Load(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPurge(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Sessions().Save(ctx, store.SessionRecord{UserID: "u1", Sealed: []byte("x"), UpdatedAt: now}))
	require.NoError(t, s.Snapshots().Save(ctx, domain.TaskSnapshot{UserID: "u1", FetchedAt: now}))
	require.NoError(t, s.Snapshots().Save(ctx, domain.TaskSnapshot{UserID: "u2", FetchedAt: now}))
	require.NoError(t, s.PendingProfiles().Save(ctx, domain.PendingProfile{UserID: "u1", Name: "A", Email: "a@x.io", CreatedAt: now}))

	require.NoError(t, s.Purge(ctx, "u1"))

	_, err := s.Sessions().Load(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Snapshots().Load(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.PendingProfiles().Load(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Snapshots().Load(ctx, "u2")
	require.NoError(t, err, "other users are untouched")
}

func TestFileBackedStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskhub.db")
	ctx := context.Background()

	s, err := sqlite.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Sessions().Save(ctx, store.SessionRecord{UserID: "u1", Sealed: []byte("x"), UpdatedAt: time.Now()}))
	require.NoError(t, s.Close())

	s, err = sqlite.NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	rec, err := s.Sessions().Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "u1", rec.UserID)
}
