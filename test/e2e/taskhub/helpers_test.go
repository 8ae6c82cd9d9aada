package taskhub_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/ParamD12/taskhub-app/pkg/taskhubsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for taskhub end-to-end tests.
 * The server runs in a container against the in-process memory backend.
 */

const (
	testImageName = "taskhub-test:latest"

	userName     = "Erin"
	userEmail    = "erin@example.com"
	userPassword = "hunter22"
	userDOB      = "1992-07-14"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete. The suite needs docker, so it only runs with
// TASKHUB_CONTAINER_TESTS=1.
func TestMain(m *testing.M) {
	if os.Getenv("TASKHUB_CONTAINER_TESTS") != "1" {
		fmt.Fprintln(os.Stdout, "set TASKHUB_CONTAINER_TESTS=1 to run end-to-end tests")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building TaskHub Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up TaskHub Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/taskhub/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image may already be gone
}

// setupTaskhubContainer starts the server in a container and returns a
// client for it.
func setupTaskhubContainer(t *testing.T) (*taskhubsdk.Client, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"TASKHUB_BACKEND":         "memory",
			"TASKHUB_STATE_DRIVER":    "sqlite",
			"TASKHUB_MASTER_KEY":      "e2e-master-key",
			"TASKHUB_LOADING_TIMEOUT": "5s",
			"ENV":                     "test",
			"LOG_LEVEL":               "info",
			"LOG_FORMAT":              "json",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	client := taskhubsdk.NewClient(fmt.Sprintf("http://%s:%s", host, mappedPort.Port()))

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return client, cleanup
}

// registerAndLogin creates the test user, signs in and waits for the first
// task fetch to settle.
func registerAndLogin(t *testing.T, client *taskhubsdk.Client) *taskhubsdk.SessionResponse {
	t.Helper()
	ctx := t.Context()

	res, err := client.Register(ctx, taskhubsdk.RegisterRequest{
		Name:     userName,
		Email:    userEmail,
		Password: userPassword,
		DOB:      userDOB,
	})
	require.NoError(t, err, "Register should succeed")
	require.NotEmpty(t, res.UserID)

	sess, err := client.Login(ctx, userEmail, userPassword)
	require.NoError(t, err, "Login should succeed")
	require.Equal(t, "authenticated", sess.Status)

	require.Eventually(t, func() bool {
		list, err := client.ListTasks(ctx, "")
		return err == nil && !list.Loading
	}, 5*time.Second, 20*time.Millisecond, "first fetch should settle")

	return sess
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *taskhubsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// requireAPIError asserts err is an APIError with the given status and code.
func requireAPIError(t *testing.T, err error, status int, code string) *taskhubsdk.APIError {
	t.Helper()
	require.Error(t, err)

	apiErr, ok := err.(*taskhubsdk.APIError)
	require.True(t, ok, "expected *taskhubsdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}
