package http

import (
	"net/http"
	"strconv"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/pkg/httpx"
	"github.com/ParamD12/taskhub-app/pkg/taskhubsdk"
)

type TasksHandler struct {
	TaskService *service.TaskService
}

// HandleList godoc
//
//	@Summary		List tasks
//	@Description	Returns one tab of the locally cached task list, newest first. Tasks still being saved are flagged pending.
//	@Description	While the first fetch after sign in is running, loading is true and no empty state is given.
//	@Tags			Tasks
//	@Produce		json
//	@Param			tab	query		string						false	"in-progress (default), completed or all"
//	@Success		200	{object}	taskhubsdk.TaskListResponse	"tab, loading, tasks, empty"
//	@Failure		401	{object}	httpx.ErrorResponse			"Not signed in, redirect to /login"
//	@Failure		503	{object}	httpx.ErrorResponse			"Session still loading"
//	@Router			/v1/tasks [get].
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := domain.ParseTaskFilter(r.URL.Query().Get("tab"))

	list, err := h.TaskService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load tasks")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, taskListView(list))
}

// HandleCreate godoc
//
//	@Summary		Add task
//	@Description	Adds a task. It shows up in the list at once as pending and is replaced by the stored row when the backend confirms it.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		taskhubsdk.CreateTaskRequest	true	"Task"
//	@Success		201		{object}	taskhubsdk.TaskResponse			"Stored task"
//	@Failure		400		{object}	httpx.ErrorResponse				"Name missing"
//	@Failure		401		{object}	httpx.ErrorResponse				"Not signed in, redirect to /login"
//	@Failure		502		{object}	httpx.ErrorResponse				"Failed to add task"
//	@Router			/v1/tasks [post].
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req taskhubsdk.CreateTaskRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	task, err := h.TaskService.Add(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err, "Failed to add task")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, taskView(task))
}

// HandleRename godoc
//
//	@Summary		Rename task
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Task ID"
//	@Param			request	body		taskhubsdk.RenameTaskRequest	true	"New name"
//	@Success		200		{object}	taskhubsdk.TaskResponse			"Updated task"
//	@Failure		400		{object}	httpx.ErrorResponse				"Name missing"
//	@Failure		404		{object}	httpx.ErrorResponse				"Task not found"
//	@Failure		409		{object}	httpx.ErrorResponse				"Task still being saved"
//	@Failure		502		{object}	httpx.ErrorResponse				"Failed to update task"
//	@Router			/v1/tasks/{id} [patch].
func (h *TasksHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req taskhubsdk.RenameTaskRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	task, err := h.TaskService.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update task")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, taskView(task))
}

// HandleSetStatus godoc
//
//	@Summary		Set task status
//	@Description	Moves a task to complete or incomplete. Moving a completed task back to incomplete answers 409 confirmation_required unless confirm is true.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Task ID"
//	@Param			request	body		taskhubsdk.SetStatusRequest	true	"Status"
//	@Success		200		{object}	taskhubsdk.TaskResponse		"Updated task"
//	@Failure		400		{object}	httpx.ErrorResponse			"Unknown status"
//	@Failure		404		{object}	httpx.ErrorResponse			"Task not found"
//	@Failure		409		{object}	httpx.ErrorResponse			"Confirmation required or task still being saved"
//	@Failure		502		{object}	httpx.ErrorResponse			"Failed to update task"
//	@Router			/v1/tasks/{id}/status [put].
func (h *TasksHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req taskhubsdk.SetStatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	task, err := h.TaskService.SetStatus(r.Context(), r.PathValue("id"), domain.TaskStatus(req.Status), req.Confirm)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update task")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, taskView(task))
}

// HandleToggle godoc
//
//	@Summary		Toggle task status
//	@Description	Flips a task between complete and incomplete with the same confirmation rule as setting the status.
//	@Tags			Tasks
//	@Produce		json
//	@Param			id		path		string					true	"Task ID"
//	@Param			confirm	query		bool					false	"Confirm moving a completed task back to in progress"
//	@Success		200		{object}	taskhubsdk.TaskResponse	"Updated task"
//	@Failure		404		{object}	httpx.ErrorResponse		"Task not found"
//	@Failure		409		{object}	httpx.ErrorResponse		"Confirmation required or task still being saved"
//	@Failure		502		{object}	httpx.ErrorResponse		"Failed to update task"
//	@Router			/v1/tasks/{id}/toggle [post].
func (h *TasksHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	confirm := false
	if v := r.URL.Query().Get("confirm"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httpx.WriteValidationError(w, map[string]string{"confirm": "confirm must be true or false"})
			return
		}
		confirm = b
	}

	task, err := h.TaskService.Toggle(r.Context(), r.PathValue("id"), confirm)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update task")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, taskView(task))
}

// HandleDelete godoc
//
//	@Summary		Delete task
//	@Tags			Tasks
//	@Param			id	path	string	true	"Task ID"
//	@Success		204	"Deleted"
//	@Failure		404	{object}	httpx.ErrorResponse	"Task not found"
//	@Failure		409	{object}	httpx.ErrorResponse	"Task still being saved"
//	@Failure		502	{object}	httpx.ErrorResponse	"Failed to delete task"
//	@Router			/v1/tasks/{id} [delete].
func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.TaskService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "Failed to delete task")
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleRefresh godoc
//
//	@Summary		Refresh tasks
//	@Description	Refetches the task list from the backend, retrying transient failures, and returns every task.
//	@Tags			Tasks
//	@Produce		json
//	@Success		200	{object}	taskhubsdk.TaskListResponse	"All tasks"
//	@Failure		401	{object}	httpx.ErrorResponse			"Not signed in, redirect to /login"
//	@Failure		502	{object}	httpx.ErrorResponse			"Failed to load tasks"
//	@Router			/v1/tasks/refresh [post].
func (h *TasksHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.TaskService.Fetch(ctx); err != nil {
		writeServiceError(w, r, err, "Failed to load tasks")
		return
	}

	list, err := h.TaskService.List(ctx, domain.FilterAll)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load tasks")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, taskListView(list))
}
