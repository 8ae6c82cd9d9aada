/*
Package taskhubsdk is a client for the TaskHub HTTP API and holds the
request and response types the server speaks.

A TaskHub server holds exactly one session, the signed in user of the
client it runs for. The SDK therefore carries no credentials: Login signs
the server in and every later call acts as that user until Logout.

	client := taskhubsdk.NewClient("http://localhost:8080")

	if _, err := client.Login(ctx, "alice@example.com", "secret1"); err != nil {
		return err
	}

	task, err := client.AddTask(ctx, "Buy milk")
	if err != nil {
		return err
	}

	// Completing is always allowed, reopening needs confirmation.
	_, _ = client.ToggleTask(ctx, task.ID, false)
	if _, err := client.ToggleTask(ctx, task.ID, false); taskhubsdk.IsCode(err, taskhubsdk.ErrorCodeConfirmation) {
		_, err = client.ToggleTask(ctx, task.ID, true)
	}

# Errors

Non 2xx replies are returned as *APIError carrying the server's code,
message, per-field details and, for 401, the page to redirect to.
*/
package taskhubsdk
