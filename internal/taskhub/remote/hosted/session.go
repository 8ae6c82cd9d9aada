package hosted

import (
	"context"
	"fmt"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/pkg/baas"
	"golang.org/x/oauth2"
)

type session struct {
	s *baas.Session
}

func (s *session) Identity() remote.Identity { return identityOf(s.s.User()) }

func (s *session) Token() (*oauth2.Token, error) {
	tok, err := s.s.Token()
	return tok, mapError(err)
}

func (s *session) UpdatePassword(ctx context.Context, password string) error {
	_, err := s.s.UpdateUser(ctx, baas.UserAttributes{Password: password})
	return mapError(err)
}

func (s *session) SignOut(ctx context.Context) error {
	return mapError(s.s.SignOut(ctx))
}

func (s *session) Tasks() remote.Tasks       { return tasks{s.s} }
func (s *session) Profiles() remote.Profiles { return profiles{s.s} }

type taskRow struct {
	TaskID    string            `json:"task_id,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	TaskName  string            `json:"task_name,omitempty"`
	Status    domain.TaskStatus `json:"status,omitempty"`
	CreatedAt *time.Time        `json:"created_at,omitempty"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
}

func (r taskRow) toDomain() domain.Task {
	t := domain.Task{
		ID:     r.TaskID,
		UserID: r.UserID,
		Name:   r.TaskName,
		Status: r.Status,
	}
	if r.CreatedAt != nil {
		t.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		t.UpdatedAt = *r.UpdatedAt
	}
	return t
}

type tasks struct{ s *baas.Session }

func (t tasks) List(ctx context.Context, userID string) ([]domain.Task, error) {
	var rows []taskRow
	err := t.s.From(tableTasks).Eq("user_id", userID).Order("created_at", false).Select(ctx, &rows)
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]domain.Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (t tasks) Insert(ctx context.Context, nt domain.NewTask) (domain.Task, error) {
	status := nt.Status
	if status == "" {
		status = domain.StatusIncomplete
	}

	var row taskRow
	err := t.s.From(tableTasks).Insert(ctx, taskRow{UserID: nt.UserID, TaskName: nt.Name, Status: status}, &row)
	if err != nil {
		return domain.Task{}, mapError(err)
	}
	return row.toDomain(), nil
}

func (t tasks) Update(ctx context.Context, userID, id string, p domain.TaskPatch) (domain.Task, error) {
	patch := map[string]any{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		patch["task_name"] = *p.Name
	}
	if p.Status != nil {
		patch["status"] = *p.Status
	}

	var row taskRow
	err := t.s.From(tableTasks).Eq("task_id", id).Eq("user_id", userID).Update(ctx, patch, &row)
	if err != nil {
		return domain.Task{}, mapError(err)
	}
	return row.toDomain(), nil
}

func (t tasks) Delete(ctx context.Context, userID, id string) error {
	n, err := t.s.From(tableTasks).Eq("task_id", id).Eq("user_id", userID).Delete(ctx)
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return remote.ErrNotFound
	}
	return nil
}

type userRow struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	DOB    *string `json:"dob"`
}

func (r userRow) toDomain() (domain.User, error) {
	u := domain.User{ID: r.UserID, Name: r.Name, Email: r.Email}
	if r.DOB != nil {
		dob, err := domain.ParseDate(*r.DOB)
		if err != nil {
			return domain.User{}, fmt.Errorf("parse dob %q: %w", *r.DOB, err)
		}
		u.DOB = dob
	}
	return u, nil
}

func rowOf(u domain.User) userRow {
	r := userRow{UserID: u.ID, Name: u.Name, Email: u.Email}
	if u.DOB != nil {
		s := u.DOBString()
		r.DOB = &s
	}
	return r
}

type profiles struct{ s *baas.Session }

func (p profiles) Get(ctx context.Context, userID string) (domain.User, error) {
	var row userRow
	if err := p.s.From(tableUsers).Eq("user_id", userID).Single(ctx, &row); err != nil {
		return domain.User{}, mapError(err)
	}
	return row.toDomain()
}

func (p profiles) Upsert(ctx context.Context, u domain.User) (domain.User, error) {
	var row userRow
	if err := p.s.From(tableUsers).Upsert(ctx, rowOf(u), "user_id", &row); err != nil {
		return domain.User{}, mapError(err)
	}
	return row.toDomain()
}

func (p profiles) UpdateName(ctx context.Context, userID, name string) (domain.User, error) {
	var row userRow
	err := p.s.From(tableUsers).Eq("user_id", userID).Update(ctx, map[string]string{"name": name}, &row)
	if err != nil {
		return domain.User{}, mapError(err)
	}
	return row.toDomain()
}
