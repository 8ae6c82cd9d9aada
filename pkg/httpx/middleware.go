package httpx

import (
	"net/http"

	"github.com/ParamD12/taskhub-app/pkg/slogx"
)

type Middleware func(http.Handler) http.Handler

// Chain wraps h so that the first middleware is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// UserResolver reports the currently signed in user, if any.
type UserResolver func(r *http.Request) (userID string, ok bool)

// RequireUser rejects requests with 401 unless resolve reports a signed in
// user, pointing the client at loginURL. The user id is injected into the
// request context.
func RequireUser(resolve UserResolver, loginURL string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := resolve(r)
			if !ok {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
					Code:     "unauthenticated",
					Message:  "Sign in to continue.",
					Redirect: loginURL,
				})
				return
			}

			ctx := WithUserID(r.Context(), userID)
			ctx = slogx.WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
