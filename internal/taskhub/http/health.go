package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store"
	"github.com/ParamD12/taskhub-app/pkg/httpx"
	"github.com/ParamD12/taskhub-app/pkg/taskhubsdk"
)

// readyzTimeout bounds each dependency check.
const readyzTimeout = 2 * time.Second

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe endpoint returning basic service health status, uptime, and version information
//	@Description	This endpoint always returns 200 OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	taskhubsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := taskhubsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint checking the local state store and the hosted backend
//	@Description	The session check reports loading, authenticated or anonymous and never fails the probe
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	taskhubsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	taskhubsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	backend remote.Backend,
	sessions *service.SessionService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &taskhubsdk.HealthChecks{
			StateStore: "ok",
			Backend:    "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			checks.StateStore = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if err := backend.Ping(ctx); err != nil {
			checks.Backend = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if view, err := sessions.Current(ctx); err != nil {
			checks.Session = "error: " + err.Error()
		} else {
			checks.Session = string(view.Status)
		}

		response := taskhubsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
