// Package redis is a store.Store on top of a redis server. Snapshots and
// sessions carry TTLs so abandoned state expires on its own.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/store"
	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key. Defaults to "taskhub".
	Prefix string

	// SessionTTL and SnapshotTTL bound how long state survives without
	// being rewritten. Zero keeps keys forever.
	SessionTTL  time.Duration
	SnapshotTTL time.Duration
}

type Store struct {
	rdb  *redis.Client
	opts Options
}

var _ store.Store = (*Store)(nil)

// NewStore connects and pings the server.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Prefix == "" {
		opts.Prefix = "taskhub"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	return &Store{rdb: rdb, opts: opts}, nil
}

func (s *Store) Close() error { return s.rdb.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// ApplyMigrations is a no-op, keys are schemaless.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Sessions() store.Sessions               { return &sessionsRepo{s} }
func (s *Store) Snapshots() store.Snapshots             { return &snapshotsRepo{s} }
func (s *Store) PendingProfiles() store.PendingProfiles { return &pendingRepo{s} }

func (s *Store) sessionKey() string               { return s.opts.Prefix + ":session" }
func (s *Store) snapshotKey(userID string) string { return s.opts.Prefix + ":snapshot:" + userID }
func (s *Store) pendingKey(userID string) string  { return s.opts.Prefix + ":pending:" + userID }

func (s *Store) Purge(ctx context.Context, userID string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.sessionKey(), s.snapshotKey(userID), s.pendingKey(userID))
		return nil
	})
	return err
}

func (s *Store) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, v)
}
