package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the default backend endpoint for local development.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"
	headerUserAgent     = "User-Agent"
	contentTypeJSON     = "application/json"
	clientUserAgent     = "bhive-go/1.0.0"
)

// LoadingFunc is notified when a request starts (true) and when it finishes
// (false). It fires on every exit path, including errors, so a presentation
// layer can drive a busy indicator without leaking it on failures.
type LoadingFunc func(active bool)

// Client is the Bhive backend API client. It is the single choke point for
// all backend calls and owns the session token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore
	token      string
	loading    LoadingFunc
	validate   *validator.Validate
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom backend base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithLoadingFunc registers a busy-indicator callback.
func WithLoadingFunc(fn LoadingFunc) Option {
	return func(c *Client) {
		c.loading = fn
	}
}

// NewClient creates a new API client backed by the given session store.
// The token is loaded from the store once here; every later change goes
// through SetToken, which writes back to the store.
func NewClient(store SessionStore, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:  DefaultBaseURL,
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	token, err := store.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to load session token: %w", err)
	}
	c.token = token

	return c, nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken stores or clears the session token. An empty token clears it.
// The in-memory copy and the durable store are updated together.
func (c *Client) SetToken(token string) error {
	c.token = token
	if err := c.store.SetToken(token); err != nil {
		return fmt.Errorf("failed to persist session token: %w", err)
	}
	return nil
}

// IsAuthenticated returns true iff a session token is currently held.
func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// UserData returns the cached user profile, or nil if none is cached.
func (c *Client) UserData() (*User, error) {
	raw, err := c.store.UserData()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached profile: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode cached profile: %w", err)
	}
	return &user, nil
}

// SetUserData caches the user profile in the durable store. A nil user
// clears the cache.
func (c *Client) SetUserData(user *User) error {
	if user == nil {
		return c.store.SetUserData(nil)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := c.store.SetUserData(data); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request against the backend and handles common
// error cases. A nil result discards the response body.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}, requiresAuth bool) error {
	if c.loading != nil {
		c.loading(true)
		defer c.loading(false)
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(headerContentType, contentTypeJSON)
	req.Header.Set(headerUserAgent, clientUserAgent)
	req.Header.Set(headerRequestID, uuid.NewString())
	if requiresAuth && c.token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read response body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// get performs an authenticated GET request.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result, true)
}

// post performs an authenticated POST request.
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, body, result, true)
}

// checkVar validates a single input value before it reaches the wire.
func (c *Client) checkVar(field, value, rules, message string) error {
	if err := c.validate.Var(value, rules); err != nil {
		return &ValidationError{Field: field, Message: message}
	}
	return nil
}
