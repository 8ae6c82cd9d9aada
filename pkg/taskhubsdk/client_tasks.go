package taskhubsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListTasks returns one tab of the task list. An empty tab selects
// in-progress.
func (c *Client) ListTasks(ctx context.Context, tab string) (*TaskListResponse, error) {
	path := "/v1/tasks"
	if tab != "" {
		path += "?tab=" + url.QueryEscape(tab)
	}

	var out TaskListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddTask creates a task and returns it once the backend has stored it.
func (c *Client) AddTask(ctx context.Context, name string) (*TaskResponse, error) {
	var out TaskResponse
	req := CreateTaskRequest{Name: name}
	if err := c.do(ctx, http.MethodPost, "/v1/tasks", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameTask changes a task's name.
func (c *Client) RenameTask(ctx context.Context, id, name string) (*TaskResponse, error) {
	var out TaskResponse
	req := RenameTaskRequest{Name: name}
	if err := c.do(ctx, http.MethodPatch, "/v1/tasks/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTaskStatus moves a task to status. Reopening a completed task fails
// with confirmation_required unless confirm is set.
func (c *Client) SetTaskStatus(ctx context.Context, id, status string, confirm bool) (*TaskResponse, error) {
	var out TaskResponse
	req := SetStatusRequest{Status: status, Confirm: confirm}
	if err := c.do(ctx, http.MethodPut, "/v1/tasks/"+url.PathEscape(id)+"/status", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleTask flips a task's status with the same confirmation rule as
// SetTaskStatus.
func (c *Client) ToggleTask(ctx context.Context, id string, confirm bool) (*TaskResponse, error) {
	path := "/v1/tasks/" + url.PathEscape(id) + "/toggle"
	if confirm {
		path += "?confirm=true"
	}

	var out TaskResponse
	if err := c.do(ctx, http.MethodPost, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/tasks/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// RefreshTasks forces a refetch and returns the full list.
func (c *Client) RefreshTasks(ctx context.Context) (*TaskListResponse, error) {
	var out TaskListResponse
	if err := c.do(ctx, http.MethodPost, "/v1/tasks/refresh", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
