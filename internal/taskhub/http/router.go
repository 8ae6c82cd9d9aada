package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store"
	"github.com/ParamD12/taskhub-app/pkg/httpx"
	"github.com/ParamD12/taskhub-app/pkg/slogx"

	_ "github.com/ParamD12/taskhub-app/api/taskhub" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// LoginPath is where anonymous clients are sent.
const LoginPath = "/login"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	backend remote.Backend

	SessionService *service.SessionService
	TaskService    *service.TaskService
	Notifier       *service.Notifier
}

func NewRouter(
	buildVersion string,
	st store.Store,
	backend remote.Backend,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		backend:      backend,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProfile()
	r.registerTasks()
	r.registerNotifications()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpx.Chain(httpSwagger.Handler(), httpx.RateLimitByIP(httpx.PublicLimit)))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TaskHub API
//	@version		0.1.0
//	@description	Single user to-do client. The server holds one session against the hosted backend and mirrors the signed in user's tasks locally.
//	@description
//	@description	Task mutations are applied to the local list first and rolled back when the backend rejects them.
//
//	@contact.name	TaskHub Maintainers
//	@contact.url	https://github.com/ParamD12/taskhub-app
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// protected wraps h so it only runs for a signed in user, after session
// restoration has finished.
func (r *Router) protected(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		RequireSession(r.SessionService),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		SessionService: r.SessionService,
	}

	// Sign up and sign in - strict rate limits (credential guessing)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Session status is public so a client can tell loading from signed out
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleSession),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{SessionService: r.SessionService}

	r.Mux.Handle("GET /v1/profile", r.protected(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/profile", r.protected(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
}

func (r *Router) registerTasks() {
	h := &TasksHandler{TaskService: r.TaskService}

	r.Mux.Handle("GET /v1/tasks", r.protected(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/tasks", r.protected(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/tasks/refresh", r.protected(http.HandlerFunc(h.HandleRefresh), httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/tasks/{id}", r.protected(http.HandlerFunc(h.HandleRename), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/tasks/{id}/status", r.protected(http.HandlerFunc(h.HandleSetStatus), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/tasks/{id}/toggle", r.protected(http.HandlerFunc(h.HandleToggle), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/tasks/{id}", r.protected(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerNotifications() {
	// Public: sign out and session end messages arrive while anonymous
	r.Mux.Handle("GET /v1/notifications",
		httpx.Chain(NotificationsHandler(r.Notifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - public limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.backend, r.SessionService),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
