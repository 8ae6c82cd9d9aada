package sqlite

import (
	"context"
	"database/sql"

	"github.com/ParamD12/taskhub-app/internal/taskhub/store"
)

type sessionsRepo struct {
	db *sql.DB
}

func (r *sessionsRepo) Save(ctx context.Context, rec store.SessionRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (slot, user_id, sealed, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
			user_id = excluded.user_id,
			sealed = excluded.sealed,
			updated_at = excluded.updated_at`,
		rec.UserID, rec.Sealed, toMillis(rec.UpdatedAt),
	)
	return err
}

func (r *sessionsRepo) Load(ctx context.Context) (store.SessionRecord, error) {
	var (
		rec     store.SessionRecord
		updated int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, sealed, updated_at FROM sessions WHERE slot = 1`,
	).Scan(&rec.UserID, &rec.Sealed, &updated)
	if err != nil {
		return store.SessionRecord{}, mapNotFound(err)
	}

	rec.UpdatedAt = fromMillis(updated)
	return rec, nil
}

func (r *sessionsRepo) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}
