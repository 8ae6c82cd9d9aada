package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultExpiryDelta is how long before expiry an access token is refreshed.
const DefaultExpiryDelta = 30 * time.Second

// Client talks to the unauthenticated half of the backend and mints
// Sessions.
type Client struct {
	BaseURL string

	// APIKey is the public (anon) key sent on every request.
	APIKey string

	HTTPClient *http.Client

	ExpiryDelta time.Duration

	events chan Event
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		APIKey:      apiKey,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		ExpiryDelta: DefaultExpiryDelta,
		events:      make(chan Event, 16),
	}
}

// Events returns the identity change feed. It is buffered; events are
// dropped rather than block a refresh when nobody is reading.
func (c *Client) Events() <-chan Event {
	return c.events
}

func (c *Client) publish(ev Event) {
	select {
	case c.events <- ev:
	default:
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// newRequest builds a JSON request carrying the api key. The anon key is
// also sent as bearer; session transports replace it with the user token.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req with hc and decodes a 2xx body into target (when non nil).
func do(hc *http.Client, req *http.Request, target any) error {
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseErrorResponse(resp, body)
	}

	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Health checks the identity API.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/health", nil)
	if err != nil {
		return err
	}
	return do(c.HTTPClient, req, nil)
}
