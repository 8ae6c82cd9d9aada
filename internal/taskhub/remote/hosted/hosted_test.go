package hosted

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/pkg/baas"
	"github.com/ParamD12/taskhub-app/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"invalid grant", &baas.APIError{StatusCode: 400, Code: baas.ErrorCodeInvalidGrant}, remote.ErrInvalidCredentials},
		{"duplicate", &baas.APIError{StatusCode: 422, Code: baas.ErrorCodeUserAlreadyExists}, remote.ErrAlreadyRegistered},
		{"no rows", &baas.APIError{StatusCode: 406, Code: baas.ErrorCodeNoRows}, remote.ErrNotFound},
		{"unauthorized", &baas.APIError{StatusCode: 401}, remote.ErrSessionExpired},
		{"forbidden", &baas.APIError{StatusCode: 403, Code: "42501"}, remote.ErrForbidden},
		{"user gone", &baas.APIError{StatusCode: 404, Code: baas.ErrorCodeUserNotFound}, remote.ErrUserDeleted},
		{"signed out", baas.ErrNoSession, remote.ErrSessionExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapError(tc.in)
			require.ErrorIs(t, got, tc.want)
			require.ErrorIs(t, got, tc.in)
		})
	}

	require.NoError(t, mapError(nil))

	other := errors.New("connection refused")
	require.Equal(t, other, mapError(other))
}

func TestWithExpiryReadsExpClaim(t *testing.T) {
	signer, err := jwtx.NewHS256([]byte("hosted test secret for expiry claims"), "hosted-test")
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	access, err := signer.Sign(jwtx.NewAccessClaims("user-1", "a@example.com", "sess-1", "hosted-test", time.Hour, now))
	require.NoError(t, err)

	got := withExpiry(&oauth2.Token{AccessToken: access})
	require.WithinDuration(t, now.Add(time.Hour), got.Expiry, time.Second)

	set := time.Unix(1800000000, 0)
	kept := withExpiry(&oauth2.Token{AccessToken: access, Expiry: set})
	require.Equal(t, set, kept.Expiry)

	opaque := withExpiry(&oauth2.Token{AccessToken: "not-a-jwt"})
	require.True(t, opaque.Expiry.IsZero())
}

func TestUserRowRoundTrip(t *testing.T) {
	dob, err := domain.ParseDate("1990-04-01")
	require.NoError(t, err)

	u := domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", DOB: dob}
	back, err := rowOf(u).toDomain()
	require.NoError(t, err)
	require.Equal(t, u, back)

	noDOB, err := rowOf(domain.User{ID: "u2"}).toDomain()
	require.NoError(t, err)
	require.Nil(t, noDOB.DOB)

	bad := "April"
	_, err = userRow{UserID: "u3", DOB: &bad}.toDomain()
	require.Error(t, err)
}

func TestTasksOverREST(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok", "refresh_token": "ref", "expires_in": 3600,
			"user": map[string]any{"id": "user-1", "email": "alice@example.com"},
		})
	})
	mux.HandleFunc("GET /rest/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"task_id": "t2", "user_id": "user-1", "task_name": "b", "status": "complete", "created_at": "2026-03-02T00:00:00Z"},
			{"task_id": "t1", "user_id": "user-1", "task_name": "a", "status": "incomplete", "created_at": "2026-03-01T00:00:00Z"},
		})
	})
	mux.HandleFunc("DELETE /rest/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	b := New(baas.NewClient(srv.URL, "anon"))
	ctx := context.Background()

	s, err := b.SignIn(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, remote.Identity{ID: "user-1", Email: "alice@example.com"}, s.Identity())

	list, err := s.Tasks().List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "t2", list[0].ID)
	require.Equal(t, domain.StatusComplete, list[0].Status)
	require.Equal(t, 2026, list[1].CreatedAt.Year())
	require.Equal(t, "order=created_at.desc&select=%2A&user_id=eq.user-1", gotQuery)

	err = s.Tasks().Delete(ctx, "user-1", "missing")
	require.ErrorIs(t, err, remote.ErrNotFound)
}
