package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/pkg/httpx"
	"github.com/ParamD12/taskhub-app/pkg/slogx"
	"github.com/ParamD12/taskhub-app/pkg/taskhubsdk"
)

// writeServiceError maps a service failure onto a response. Failures that
// are not the client's fault answer 502 with fallback as the message,
// which matches the notification raised for the same failure.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		httpx.WriteValidationError(w, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorResponse{
			Code:     taskhubsdk.ErrorCodeUnauthenticated,
			Message:  "Sign in to continue.",
			Redirect: LoginPath,
		})
	case errors.Is(err, remote.ErrSessionExpired), errors.Is(err, remote.ErrUserDeleted):
		httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorResponse{
			Code:     taskhubsdk.ErrorCodeSessionExpired,
			Message:  "Your session has expired. Please sign in again.",
			Redirect: LoginPath,
		})
	case errors.Is(err, remote.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, taskhubsdk.ErrorCodeInvalidCredentials, "Invalid login credentials")
	case errors.Is(err, remote.ErrAlreadyRegistered):
		httpx.WriteError(w, http.StatusConflict, taskhubsdk.ErrorCodeAlreadyRegistered, "User already registered")
	case errors.Is(err, service.ErrAlreadyAuthenticated):
		httpx.WriteError(w, http.StatusConflict, taskhubsdk.ErrorCodeAlreadyAuthenticated, "Already signed in. Sign out first.")
	case errors.Is(err, service.ErrConfirmationRequired):
		httpx.WriteError(w, http.StatusConflict, taskhubsdk.ErrorCodeConfirmation, service.ConfirmReopenPrompt)
	case errors.Is(err, service.ErrTaskPending):
		httpx.WriteError(w, http.StatusConflict, taskhubsdk.ErrorCodeTaskPending, "Task is still being saved. Try again in a moment.")
	case errors.Is(err, service.ErrTaskNotFound), errors.Is(err, remote.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, taskhubsdk.ErrorCodeNotFound, "Task not found")
	case errors.Is(err, service.ErrInvalidStatus):
		httpx.WriteValidationError(w, map[string]string{"status": "Status must be incomplete or complete"})
	case errors.Is(err, remote.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, taskhubsdk.ErrorCodeForbidden, fallback)
	case errors.Is(err, service.ErrLoadingTimeout):
		httpx.WriteError(w, http.StatusServiceUnavailable, taskhubsdk.ErrorCodeLoadingTimeout, "Still loading your session. Please try again.")
	case errors.Is(err, service.ErrProfileMissing):
		httpx.WriteError(w, http.StatusBadGateway, taskhubsdk.ErrorCodeUpstream, "Failed to fetch user profile")
	case errors.Is(err, context.DeadlineExceeded):
		httpx.WriteError(w, http.StatusGatewayTimeout, taskhubsdk.ErrorCodeUpstream, fallback)
	default:
		slogx.FromContext(r.Context()).Warn("request failed", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, taskhubsdk.ErrorCodeUpstream, fallback)
	}
}

func writeBadRequest(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
}
