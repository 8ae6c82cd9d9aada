package sqlite

import (
	"context"
	"database/sql"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
)

type pendingRepo struct {
	db *sql.DB
}

func (r *pendingRepo) Save(ctx context.Context, p domain.PendingProfile) error {
	u := domain.User{DOB: p.DOB}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_profiles (user_id, name, email, dob, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			dob = excluded.dob`,
		p.UserID, p.Name, p.Email, mapStringNull(u.DOBString()), toMillis(p.CreatedAt),
	)
	return err
}

func (r *pendingRepo) Load(ctx context.Context, userID string) (domain.PendingProfile, error) {
	var (
		p       = domain.PendingProfile{UserID: userID}
		dob     sql.NullString
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT name, email, dob, created_at FROM pending_profiles WHERE user_id = ?`, userID,
	).Scan(&p.Name, &p.Email, &dob, &created)
	if err != nil {
		return domain.PendingProfile{}, mapNotFound(err)
	}

	if dob.Valid {
		if p.DOB, err = domain.ParseDate(dob.String); err != nil {
			return domain.PendingProfile{}, err
		}
	}
	p.CreatedAt = fromMillis(created)
	return p, nil
}

func (r *pendingRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_profiles WHERE user_id = ?`, userID)
	return err
}
