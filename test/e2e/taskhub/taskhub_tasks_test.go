package taskhub_test

import (
	"net/http"
	"testing"

	"github.com/ParamD12/taskhub-app/pkg/taskhubsdk"
	"github.com/stretchr/testify/require"
)

// TestAnonymousIsRedirected verifies protected routes point anonymous
// callers at the login screen.
func TestAnonymousIsRedirected(t *testing.T) {
	client, cleanup := setupTaskhubContainer(t)
	defer cleanup()

	_, err := client.ListTasks(t.Context(), taskhubsdk.TabInProgress)
	apiErr := requireAPIError(t, err, http.StatusUnauthorized, taskhubsdk.ErrorCodeUnauthenticated)
	require.Equal(t, "/login", apiErr.Redirect)
}

// TestTaskFlow walks a task through its whole life over the wire.
func TestTaskFlow(t *testing.T) {
	client, cleanup := setupTaskhubContainer(t)
	defer cleanup()

	sess := registerAndLogin(t, client)
	require.NotNil(t, sess.User)
	require.Equal(t, userName, sess.User.Name)

	ctx := t.Context()

	empty, err := client.ListTasks(ctx, taskhubsdk.TabInProgress)
	require.NoError(t, err)
	require.Empty(t, empty.Tasks)
	require.NotNil(t, empty.Empty)
	require.Equal(t, "No tasks in progress", empty.Empty.Title)

	task, err := client.AddTask(ctx, "File tax return")
	require.NoError(t, err)
	require.Equal(t, taskhubsdk.StatusIncomplete, task.Status)

	done, err := client.ToggleTask(ctx, task.ID, false)
	require.NoError(t, err)
	require.Equal(t, taskhubsdk.StatusComplete, done.Status)

	completed, err := client.ListTasks(ctx, taskhubsdk.TabCompleted)
	require.NoError(t, err)
	require.Len(t, completed.Tasks, 1)

	_, err = client.ToggleTask(ctx, task.ID, false)
	requireAPIError(t, err, http.StatusConflict, taskhubsdk.ErrorCodeConfirmation)

	reopened, err := client.ToggleTask(ctx, task.ID, true)
	require.NoError(t, err)
	require.Equal(t, taskhubsdk.StatusIncomplete, reopened.Status)

	renamed, err := client.RenameTask(ctx, task.ID, "File 2025 tax return")
	require.NoError(t, err)
	require.Equal(t, "File 2025 tax return", renamed.Name)

	require.NoError(t, client.DeleteTask(ctx, task.ID))

	all, err := client.ListTasks(ctx, taskhubsdk.TabAll)
	require.NoError(t, err)
	require.Empty(t, all.Tasks)

	notes, err := client.DrainNotifications(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, notes)
}

// TestProfileAndLogout verifies the profile view and that signing out
// closes access to the task list.
func TestProfileAndLogout(t *testing.T) {
	client, cleanup := setupTaskhubContainer(t)
	defer cleanup()

	registerAndLogin(t, client)
	ctx := t.Context()

	profile, err := client.GetProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, userEmail, profile.Email)
	require.Equal(t, "July 14, 1992", profile.DOBDisplay)

	updated, err := client.UpdateProfile(ctx, taskhubsdk.UpdateProfileRequest{Name: "Erin Q"})
	require.NoError(t, err)
	require.Equal(t, "Erin Q", updated.Name)

	out, err := client.Logout(ctx)
	require.NoError(t, err)
	require.Equal(t, "/login", out.Redirect)

	_, err = client.ListTasks(ctx, taskhubsdk.TabAll)
	requireAPIError(t, err, http.StatusUnauthorized, taskhubsdk.ErrorCodeUnauthenticated)
}
