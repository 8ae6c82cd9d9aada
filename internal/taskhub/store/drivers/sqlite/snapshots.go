package sqlite

import (
	"context"
	"database/sql"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store"
)

type snapshotsRepo struct {
	db *sql.DB
}

func (r *snapshotsRepo) Save(ctx context.Context, snap domain.TaskSnapshot) error {
	data, err := store.EncodeTasks(snap.Tasks)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO task_snapshots (user_id, tasks, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			tasks = excluded.tasks,
			fetched_at = excluded.fetched_at`,
		snap.UserID, string(data), toMillis(snap.FetchedAt),
	)
	return err
}

func (r *snapshotsRepo) Load(ctx context.Context, userID string) (domain.TaskSnapshot, error) {
	var (
		data    string
		fetched int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT tasks, fetched_at FROM task_snapshots WHERE user_id = ?`, userID,
	).Scan(&data, &fetched)
	if err != nil {
		return domain.TaskSnapshot{}, mapNotFound(err)
	}

	tasks, err := store.DecodeTasks([]byte(data))
	if err != nil {
		return domain.TaskSnapshot{}, err
	}
	return domain.TaskSnapshot{UserID: userID, Tasks: tasks, FetchedAt: fromMillis(fetched)}, nil
}

func (r *snapshotsRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM task_snapshots WHERE user_id = ?`, userID)
	return err
}
