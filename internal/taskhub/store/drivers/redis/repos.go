package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store"
)

type sessionValue struct {
	UserID    string    `json:"user_id"`
	Sealed    []byte    `json:"sealed"`
	UpdatedAt time.Time `json:"updated_at"`
}

type sessionsRepo struct{ s *Store }

func (r *sessionsRepo) Save(ctx context.Context, rec store.SessionRecord) error {
	return r.s.setJSON(ctx, r.s.sessionKey(), sessionValue(rec), r.s.opts.SessionTTL)
}

func (r *sessionsRepo) Load(ctx context.Context) (store.SessionRecord, error) {
	var v sessionValue
	if err := r.s.getJSON(ctx, r.s.sessionKey(), &v); err != nil {
		return store.SessionRecord{}, err
	}
	return store.SessionRecord(v), nil
}

func (r *sessionsRepo) Delete(ctx context.Context) error {
	return r.s.rdb.Del(ctx, r.s.sessionKey()).Err()
}

type snapshotValue struct {
	Tasks     json.RawMessage `json:"tasks"`
	FetchedAt time.Time       `json:"fetched_at"`
}

type snapshotsRepo struct{ s *Store }

func (r *snapshotsRepo) Save(ctx context.Context, snap domain.TaskSnapshot) error {
	tasks, err := store.EncodeTasks(snap.Tasks)
	if err != nil {
		return err
	}
	v := snapshotValue{Tasks: tasks, FetchedAt: snap.FetchedAt}
	return r.s.setJSON(ctx, r.s.snapshotKey(snap.UserID), v, r.s.opts.SnapshotTTL)
}

func (r *snapshotsRepo) Load(ctx context.Context, userID string) (domain.TaskSnapshot, error) {
	var v snapshotValue
	if err := r.s.getJSON(ctx, r.s.snapshotKey(userID), &v); err != nil {
		return domain.TaskSnapshot{}, err
	}

	tasks, err := store.DecodeTasks(v.Tasks)
	if err != nil {
		return domain.TaskSnapshot{}, err
	}
	return domain.TaskSnapshot{UserID: userID, Tasks: tasks, FetchedAt: v.FetchedAt}, nil
}

func (r *snapshotsRepo) Delete(ctx context.Context, userID string) error {
	return r.s.rdb.Del(ctx, r.s.snapshotKey(userID)).Err()
}

type pendingValue struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	DOB       string    `json:"dob,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type pendingRepo struct{ s *Store }

func (r *pendingRepo) Save(ctx context.Context, p domain.PendingProfile) error {
	v := pendingValue{
		Name:      p.Name,
		Email:     p.Email,
		DOB:       domain.User{DOB: p.DOB}.DOBString(),
		CreatedAt: p.CreatedAt,
	}
	return r.s.setJSON(ctx, r.s.pendingKey(p.UserID), v, 0)
}

func (r *pendingRepo) Load(ctx context.Context, userID string) (domain.PendingProfile, error) {
	var v pendingValue
	if err := r.s.getJSON(ctx, r.s.pendingKey(userID), &v); err != nil {
		return domain.PendingProfile{}, err
	}

	dob, err := domain.ParseDate(v.DOB)
	if err != nil {
		return domain.PendingProfile{}, err
	}
	return domain.PendingProfile{
		UserID:    userID,
		Name:      v.Name,
		Email:     v.Email,
		DOB:       dob,
		CreatedAt: v.CreatedAt,
	}, nil
}

func (r *pendingRepo) Delete(ctx context.Context, userID string) error {
	return r.s.rdb.Del(ctx, r.s.pendingKey(userID)).Err()
}
