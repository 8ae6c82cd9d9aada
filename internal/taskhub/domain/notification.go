package domain

import "time"

type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
	NotifyInfo    NotificationLevel = "info"
)

// Notification is a transient, user facing message about the outcome of an
// action.
type Notification struct {
	ID        string
	Level     NotificationLevel
	Message   string
	CreatedAt time.Time
}
