// Package baas is a small client for a hosted backend-as-a-service that
// exposes a GoTrue style identity API under /auth/v1 and a PostgREST style
// row API under /rest/v1.
//
// Unauthenticated calls (sign up, password sign in, refresh) go through
// Client. A successful sign in yields a Session whose HTTP transport attaches
// the access token and transparently refreshes it through an
// oauth2.TokenSource before it expires.
//
//	c := baas.NewClient("https://xyz.example.co", anonKey)
//	s, err := c.SignInWithPassword(ctx, "alice@example.com", "secret")
//	var rows []Task
//	err = s.From("tasks").Eq("user_id", s.User().ID).Order("created_at", false).Select(ctx, &rows)
//
// Identity changes (token refreshes, sign outs, deleted users) are published
// on Client.Events.
package baas
