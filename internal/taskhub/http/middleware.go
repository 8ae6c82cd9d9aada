package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/pkg/httpx"
	"github.com/ParamD12/taskhub-app/pkg/slogx"
)

// loadingRetryAfter is the Retry-After hint, in seconds, sent while the
// session is still being restored.
const loadingRetryAfter = 1

// RequireSession holds a request until session restoration has finished,
// then lets it through only for a signed in user. A restoration that takes
// longer than the loading timeout answers 503 so the client can retry.
func RequireSession(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			view, err := sessions.WaitReady(r.Context())
			if err != nil {
				if !errors.Is(err, service.ErrLoadingTimeout) {
					slogx.FromContext(r.Context()).Debug("request ended while waiting for session", "err", err)
				}
				w.Header().Set("Retry-After", strconv.Itoa(loadingRetryAfter))
				httpx.WriteError(w, http.StatusServiceUnavailable, "loading_timeout", "Still loading your session. Please try again.")
				return
			}

			resolve := func(*http.Request) (string, bool) {
				if !view.Authenticated() {
					return "", false
				}
				return view.User.ID, true
			}
			httpx.RequireUser(resolve, LoginPath)(next).ServeHTTP(w, r)
		})
	}
}
