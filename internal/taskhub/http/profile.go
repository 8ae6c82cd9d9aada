package http

import (
	"net/http"

	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/pkg/httpx"
	"github.com/ParamD12/taskhub-app/pkg/taskhubsdk"
)

type ProfileHandler struct {
	SessionService *service.SessionService
}

// HandleGet godoc
//
//	@Summary		Get profile
//	@Description	Returns the signed in user's profile. The date of birth is also rendered for display, or "Not provided".
//	@Tags			Profile
//	@Produce		json
//	@Success		200	{object}	taskhubsdk.ProfileResponse	"id, name, email, dob, dob_display"
//	@Failure		401	{object}	httpx.ErrorResponse			"Not signed in, redirect to /login"
//	@Failure		503	{object}	httpx.ErrorResponse			"Session still loading"
//	@Router			/v1/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.SessionService.Current(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch user profile")
		return
	}
	if !view.Authenticated() {
		writeServiceError(w, r, service.ErrNotAuthenticated, "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileView(*view.User))
}

// HandleUpdate godoc
//
//	@Summary		Update profile
//	@Description	Changes the password when one is given, then the name. The profile changes only when both writes succeed.
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			request	body		taskhubsdk.UpdateProfileRequest	true	"Profile form"
//	@Success		200		{object}	taskhubsdk.ProfileResponse		"Updated profile"
//	@Failure		400		{object}	httpx.ErrorResponse				"Invalid form fields"
//	@Failure		401		{object}	httpx.ErrorResponse				"Not signed in, redirect to /login"
//	@Failure		502		{object}	httpx.ErrorResponse				"Backend failure"
//	@Router			/v1/profile [put].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req taskhubsdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	user, err := h.SessionService.UpdateProfile(r.Context(), service.ProfileInput{
		Name:            req.Name,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeServiceError(w, r, err, "Profile update failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileView(user))
}
