package store

import (
	"context"
	"errors"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the local state store. It holds what must survive a restart of
// the client: the sealed session, the last task snapshot per user and
// profiles whose remote write is still pending. Drivers (sqlite, redis)
// implement it.
type Store interface {
	Sessions() Sessions
	Snapshots() Snapshots
	PendingProfiles() PendingProfiles

	// Purge removes every record of userID and the persisted session in one
	// atomic step.
	Purge(ctx context.Context, userID string) error

	ApplyMigrations() error

	Close() error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// SessionRecord is the persisted session. Sealed is opaque to the store.
type SessionRecord struct {
	UserID    string
	Sealed    []byte
	UpdatedAt time.Time
}

// Sessions holds at most one session, the client is single user.
type Sessions interface {
	Save(ctx context.Context, rec SessionRecord) error

	// Load returns ErrNotFound when nothing is persisted.
	Load(ctx context.Context) (SessionRecord, error)
	Delete(ctx context.Context) error
}

type Snapshots interface {
	Save(ctx context.Context, snap domain.TaskSnapshot) error
	Load(ctx context.Context, userID string) (domain.TaskSnapshot, error)
	Delete(ctx context.Context, userID string) error
}

type PendingProfiles interface {
	Save(ctx context.Context, p domain.PendingProfile) error
	Load(ctx context.Context, userID string) (domain.PendingProfile, error)
	Delete(ctx context.Context, userID string) error
}
