package taskhubsdk

import "time"

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status" example:"ok"`
	Uptime  string        `json:"uptime" example:"1h2m3s"`
	Version string        `json:"version" example:"0.1.0"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the dependencies checked by /readyz.
type HealthChecks struct {
	StateStore string `json:"state_store" example:"ok"`
	Backend    string `json:"backend" example:"ok"`
	Session    string `json:"session" example:"authenticated"`
}

// ============================================================================
// Auth Types
// ============================================================================

// RegisterRequest is the sign up form.
type RegisterRequest struct {
	Name     string `json:"name" example:"Alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"secret1"`

	// DOB is the date of birth as YYYY-MM-DD.
	DOB string `json:"dob" example:"1990-04-01"`
}

// RegisterResponse confirms an account was created. The client is not
// signed in afterwards.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Message  string `json:"message" example:"Account created successfully! Please sign in."`
	Redirect string `json:"redirect" example:"/login"`
}

// LoginRequest is the sign in form.
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"secret1"`
}

// MessageResponse carries a user facing confirmation.
type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// SessionResponse describes who is signed in. Status is one of loading,
// authenticated or anonymous; User is set only when authenticated.
type SessionResponse struct {
	Status string           `json:"status" example:"authenticated"`
	User   *ProfileResponse `json:"user,omitempty"`
}

// ============================================================================
// Profile Types
// ============================================================================

// ProfileResponse is the signed in user's profile.
type ProfileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name" example:"Alice"`
	Email string `json:"email" example:"alice@example.com"`

	// DOB is YYYY-MM-DD or empty.
	DOB string `json:"dob,omitempty" example:"1990-04-01"`

	// DOBDisplay is DOB formatted for display, or "Not provided".
	DOBDisplay string `json:"dob_display" example:"April 1, 1990"`
}

// UpdateProfileRequest changes the name and, when Password is set, the
// password.
type UpdateProfileRequest struct {
	Name            string `json:"name" example:"Alice"`
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

// ============================================================================
// Task Types
// ============================================================================

const (
	TabInProgress = "in-progress"
	TabCompleted  = "completed"
	TabAll        = "all"

	StatusIncomplete = "incomplete"
	StatusComplete   = "complete"
)

// TaskResponse is one task. Pending is true while its insert is in flight;
// such a task cannot be changed yet.
type TaskResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" example:"Buy milk"`
	Status    string    `json:"status" example:"incomplete"`
	Pending   bool      `json:"pending"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmptyState is the copy shown when a tab has no tasks.
type EmptyState struct {
	Title       string `json:"title" example:"No tasks in progress"`
	Description string `json:"description" example:"Add a new task to get started with your to-do list."`
}

// TaskListResponse is one tab of the task list, newest first. Loading is
// true until the first fetch of the session has settled.
type TaskListResponse struct {
	Tab       string         `json:"tab" example:"in-progress"`
	Loading   bool           `json:"loading"`
	FetchedAt *time.Time     `json:"fetched_at,omitempty"`
	Tasks     []TaskResponse `json:"tasks"`
	Empty     *EmptyState    `json:"empty,omitempty"`
}

// CreateTaskRequest adds a task.
type CreateTaskRequest struct {
	Name string `json:"name" example:"Buy milk"`
}

// RenameTaskRequest renames a task.
type RenameTaskRequest struct {
	Name string `json:"name" example:"Buy oat milk"`
}

// SetStatusRequest moves a task to Status. Moving a completed task back to
// incomplete requires Confirm.
type SetStatusRequest struct {
	Status  string `json:"status" example:"complete"`
	Confirm bool   `json:"confirm"`
}

// ============================================================================
// Notification Types
// ============================================================================

// NotificationResponse is one user facing message. Level is success, error
// or info.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Level     string    `json:"level" example:"success"`
	Message   string    `json:"message" example:"Task added successfully"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationsResponse lists the messages raised since the last drain,
// oldest first.
type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}
