package http

import (
	"net/http"

	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/pkg/httpx"
	"github.com/ParamD12/taskhub-app/pkg/taskhubsdk"
)

// NotificationsHandler godoc
//
//	@Summary		Drain notifications
//	@Description	Returns the success and error messages raised since the last call, oldest first, and clears them.
//	@Tags			Notifications
//	@Produce		json
//	@Success		200	{object}	taskhubsdk.NotificationsResponse	"notifications"
//	@Router			/v1/notifications [get].
func NotificationsHandler(n *service.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drained := n.Drain()

		out := taskhubsdk.NotificationsResponse{
			Notifications: make([]taskhubsdk.NotificationResponse, 0, len(drained)),
		}
		for _, item := range drained {
			out.Notifications = append(out.Notifications, notificationView(item))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}
