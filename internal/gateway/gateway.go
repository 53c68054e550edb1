package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"tunedeck/internal/shared"
)

const defaultBaseURL = "https://musics-system-2.onrender.com"

// Client performs HTTP requests against the catalog backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *SnapshotCache
	logger     *log.Logger
}

// New creates a gateway client. A nil http.Client falls back to
// [http.DefaultClient], a nil cache to a fresh [SnapshotCache] with default
// freshness windows, a nil logger to the shared default.
func New(baseURL string, client *http.Client, cache *SnapshotCache, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if cache == nil {
		cache = NewSnapshotCache(nil)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		cache:      cache,
		logger:     logger,
	}
}

// Cache exposes the snapshot cache for composition-root wiring and tests.
func (c *Client) Cache() *SnapshotCache { return c.cache }

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// BearerClient builds an *http.Client that injects the given bearer token on
// every request via [oauth2.StaticTokenSource]. Used for ad-hoc fetches
// outside the gateway's own endpoints (e.g. bulk audio downloads).
func BearerClient(ctx context.Context, token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return oauth2.NewClient(ctx, src)
}

// ServerError is a non-2xx response from the backend.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a [*ServerError] with status 404.
// Collection stores treat 404 as a legitimate empty collection.
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// serverError builds a [*ServerError] from a response body, preferring a
// message/error field from a JSON body over the raw text.
func serverError(status int, body []byte) *ServerError {
	msg := strings.TrimSpace(string(body))

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if m := stringField(payload, "message", "error"); m != "" {
			msg = m
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &ServerError{Status: status, Message: msg}
}

// doJSON performs a request with an optional JSON body and bearer token,
// decoding a 2xx JSON response into out when out is non-nil. An empty or
// non-JSON success body with a nil out is not an error (DELETE responses
// are frequently empty).
func (c *Client) doJSON(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

// send executes the prepared request and decodes the response per doJSON's contract.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serverError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetRaw performs a GET against an arbitrary backend path and returns the raw
// JSON body. Used by the debug CLI surface; regular callers go through the
// typed endpoint methods.
func (c *Client) GetRaw(ctx context.Context, path, token string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Health checks backend connectivity by fetching the catalog endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/musics", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}
