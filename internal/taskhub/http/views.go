package http

import (
	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/pkg/taskhubsdk"
)

// dobDisplayLayout renders a date of birth on the profile page.
const dobDisplayLayout = "January 2, 2006"

var emptyStates = map[domain.TaskFilter]taskhubsdk.EmptyState{
	domain.FilterInProgress: {
		Title:       "No tasks in progress",
		Description: "Add a new task to get started with your to-do list.",
	},
	domain.FilterCompleted: {
		Title:       "No completed tasks",
		Description: "Complete some tasks to see them here.",
	},
	domain.FilterAll: {
		Title:       "No tasks yet",
		Description: "Add a new task to get started with your to-do list.",
	},
}

func profileView(u domain.User) taskhubsdk.ProfileResponse {
	p := taskhubsdk.ProfileResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		DOB:        u.DOBString(),
		DOBDisplay: "Not provided",
	}
	if u.DOB != nil {
		p.DOBDisplay = u.DOB.Format(dobDisplayLayout)
	}
	return p
}

func sessionView(v service.SessionView) taskhubsdk.SessionResponse {
	out := taskhubsdk.SessionResponse{Status: string(v.Status)}
	if v.Authenticated() {
		p := profileView(*v.User)
		out.User = &p
	}
	return out
}

func taskView(t domain.Task) taskhubsdk.TaskResponse {
	return taskhubsdk.TaskResponse{
		ID:        t.ID,
		Name:      t.Name,
		Status:    string(t.Status),
		Pending:   t.IsPlaceholder(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// taskListView renders a tab. The empty state is shown only once the list
// has loaded.
func taskListView(l service.TaskList) taskhubsdk.TaskListResponse {
	out := taskhubsdk.TaskListResponse{
		Tab:     string(l.Filter),
		Loading: l.Loading,
		Tasks:   make([]taskhubsdk.TaskResponse, 0, len(l.Tasks)),
	}
	if !l.FetchedAt.IsZero() {
		fetched := l.FetchedAt
		out.FetchedAt = &fetched
	}
	for _, t := range l.Tasks {
		out.Tasks = append(out.Tasks, taskView(t))
	}
	if len(out.Tasks) == 0 && !l.Loading {
		empty := emptyStates[l.Filter]
		out.Empty = &empty
	}
	return out
}

func notificationView(n domain.Notification) taskhubsdk.NotificationResponse {
	return taskhubsdk.NotificationResponse{
		ID:        n.ID,
		Level:     string(n.Level),
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
}
