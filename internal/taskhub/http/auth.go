package http

import (
	"net/http"

	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/pkg/httpx"
	"github.com/ParamD12/taskhub-app/pkg/slogx"
	"github.com/ParamD12/taskhub-app/pkg/taskhubsdk"
)

type AuthHandler struct {
	SessionService *service.SessionService
}

// HandleRegister godoc
//
//	@Summary		Create an account
//	@Description	Registers an identity with the hosted backend and writes the profile. The client stays signed out and is pointed at the sign in page.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		taskhubsdk.RegisterRequest	true	"Sign up form"
//	@Success		201		{object}	taskhubsdk.RegisterResponse	"user_id, message, redirect"
//	@Failure		400		{object}	httpx.ErrorResponse			"Invalid form fields"
//	@Failure		409		{object}	httpx.ErrorResponse			"Email already registered"
//	@Failure		429		{object}	httpx.ErrorResponse			"Too many attempts"
//	@Failure		502		{object}	httpx.ErrorResponse			"Backend failure"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req taskhubsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	id, err := h.SessionService.SignUp(ctx, service.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		DOB:      req.DOB,
	})
	if err != nil {
		log.Info("registration rejected", "err", err)
		writeServiceError(w, r, err, "Registration failed")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, taskhubsdk.RegisterResponse{
		UserID:   id.ID,
		Message:  "Account created successfully! Please sign in.",
		Redirect: LoginPath,
	})
}

// HandleLogin godoc
//
//	@Summary		Sign in
//	@Description	Signs the client in, loads the profile and starts loading the task list in the background.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		taskhubsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	taskhubsdk.SessionResponse	"status, user"
//	@Failure		400		{object}	httpx.ErrorResponse			"Missing email or password"
//	@Failure		401		{object}	httpx.ErrorResponse			"Invalid login credentials"
//	@Failure		409		{object}	httpx.ErrorResponse			"Already signed in"
//	@Failure		429		{object}	httpx.ErrorResponse			"Too many attempts"
//	@Failure		502		{object}	httpx.ErrorResponse			"Backend failure"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req taskhubsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	view, err := h.SessionService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		log.Info("sign in rejected", "err", err)
		writeServiceError(w, r, err, "Sign in failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionView(view))
}

// HandleLogout godoc
//
//	@Summary		Sign out
//	@Description	Ends the session and clears every locally held trace of the user. Local state is cleared even when the backend cannot be reached.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	taskhubsdk.MessageResponse	"message, redirect"
//	@Failure		401	{object}	httpx.ErrorResponse			"Not signed in"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionService.SignOut(r.Context()); err != nil {
		writeServiceError(w, r, err, "Sign out failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, taskhubsdk.MessageResponse{
		Message:  "Signed out successfully",
		Redirect: LoginPath,
	})
}

// HandleSession godoc
//
//	@Summary		Session status
//	@Description	Returns loading while a persisted session is being restored, then authenticated with the user or anonymous.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	taskhubsdk.SessionResponse	"status, user"
//	@Router			/v1/session [get].
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.SessionService.Current(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to read session")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionView(view))
}
