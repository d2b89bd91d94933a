// Package client is a thin Spotify Web API client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/logging"
	"github.com/tessro/tempo/internal/spotify/auth"
)

const (
	// BaseURL is the Spotify Web API base URL.
	BaseURL = "https://api.spotify.com/v1"

	// retry configuration for transient errors
	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
	maxRetryAfter = 30 * time.Second
)

// Client is a Spotify API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	storage    *auth.TokenStorage
	endpoint   *auth.TokenEndpoint
	limiter    *rate.Limiter
	log        *log.Logger

	mu    sync.RWMutex
	token *auth.Token
	user  *User

	retryWait time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRateLimit paces requests to rps with the given burst. Zero disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTokenEndpoint overrides the accounts service used for refreshes.
func WithTokenEndpoint(e *auth.TokenEndpoint) Option {
	return func(c *Client) { c.endpoint = e }
}

// WithRetryWait sets the initial backoff between retries.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// New creates a Spotify client for clientID that keeps tokens in storage.
func New(clientID string, storage *auth.TokenStorage, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    BaseURL,
		clientID:   clientID,
		storage:    storage,
		endpoint:   auth.DefaultTokenEndpoint(),
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		log:        logging.Discard(),
		retryWait:  baseRetryWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadToken loads the token from storage.
func (c *Client) LoadToken() error {
	token, err := c.storage.Load()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// SetToken sets the current token and persists it.
func (c *Client) SetToken(token *auth.Token) error {
	c.mu.Lock()
	c.token = token
	c.user = nil
	c.mu.Unlock()
	return c.storage.Save(token)
}

// Token returns a copy of the current token, or nil.
func (c *Client) Token() *auth.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return nil
	}
	t := *c.token
	return &t
}

// IsAuthenticated returns true if there's a valid (non-expired) token.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != nil && !c.token.IsExpired()
}

// HasToken returns true if there's any token (even if expired).
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != nil
}

// Logout forgets the token in memory and on disk.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.token = nil
	c.user = nil
	c.mu.Unlock()
	return c.storage.Delete()
}

// RefreshToken refreshes the access token if it has expired.
func (c *Client) RefreshToken(ctx context.Context) error {
	return c.refresh(ctx, false)
}

func (c *Client) refresh(ctx context.Context, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil {
		return tempoerrors.ErrNotAuthenticated
	}
	if !force && !c.token.IsExpired() {
		return nil
	}
	if c.token.RefreshToken == "" {
		return tempoerrors.ErrSessionExpired
	}

	c.log.Debug("refreshing access token", "forced", force)
	tok, err := c.endpoint.Refresh(ctx, c.clientID, c.token.RefreshToken)
	if err != nil {
		var oerr *auth.OAuthError
		if errors.As(err, &oerr) && oerr.InvalidGrant() {
			// the grant is gone; log the user out
			c.token, c.user = nil, nil
			_ = c.storage.Delete()
			return fmt.Errorf("%w: %v", tempoerrors.ErrSessionExpired, err)
		}
		return fmt.Errorf("refresh token: %w", err)
	}

	c.token = tok
	return c.storage.Save(tok)
}

// accessToken returns the current access token, refreshing if needed.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if err := c.RefreshToken(ctx); err != nil {
		return "", err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return "", tempoerrors.ErrNotAuthenticated
	}
	return c.token.AccessToken, nil
}

// Get performs a GET request to the Spotify API.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.request(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request to the Spotify API.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.request(ctx, http.MethodPost, path, body, result)
}

// Put performs a PUT request to the Spotify API.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.request(ctx, http.MethodPut, path, body, result)
}

// Delete performs a DELETE request, with an optional JSON body.
func (c *Client) Delete(ctx context.Context, path string, body any) error {
	return c.request(ctx, http.MethodDelete, path, body, nil)
}

func (c *Client) request(ctx context.Context, method, path string, body, result any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	fullURL := c.baseURL + path
	l := logging.With(c.log, "method", method, "url", fullURL)
	if payload != nil {
		l.Debug("request", "body", string(payload))
	} else {
		l.Debug("request")
	}

	var (
		lastErr    error
		refreshed  bool
		retryAfter time.Duration
	)
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retryWait * time.Duration(1<<(attempt-1))
			if retryAfter > 0 {
				wait, retryAfter = retryAfter, 0
			}
			l.Debug("retrying", "attempt", attempt, "wait", wait, "err", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", tempoerrors.ErrNetworkError, err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		l.Debug("response", "status", resp.StatusCode)

		switch {
		case resp.StatusCode == http.StatusNoContent:
			return nil

		case resp.StatusCode == http.StatusUnauthorized && !refreshed:
			refreshed = true
			if err := c.refresh(ctx, true); err != nil {
				return err
			}
			if token, err = c.accessToken(ctx); err != nil {
				return err
			}
			attempt--
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
			lastErr = fmt.Errorf("%w: %v", tempoerrors.ErrRateLimited, parseAPIError(resp.StatusCode, respBody))
			continue

		case resp.StatusCode >= 500:
			lastErr = parseAPIError(resp.StatusCode, respBody)
			l.Warn("server error", "status", resp.StatusCode, "err", lastErr)
			continue

		case resp.StatusCode >= 400:
			l.Debug("api error", "body", string(respBody))
			return parseAPIError(resp.StatusCode, respBody)
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d
}

// APIError represents a Spotify API error response.
type APIError struct {
	ErrorInfo struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason,omitempty"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify api error (%d): %s", e.ErrorInfo.Status, e.ErrorInfo.Message)
}

// Status returns the HTTP status of the error.
func (e *APIError) Status() int {
	return e.ErrorInfo.Status
}

func parseAPIError(status int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.ErrorInfo.Message == "" {
		apiErr.ErrorInfo.Message = http.StatusText(status)
	}
	apiErr.ErrorInfo.Status = status
	return &apiErr
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status()
	}
	return 0
}

// IsNoActiveDeviceError reports a 404 from a player endpoint.
func IsNoActiveDeviceError(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsAlreadyPlayingError reports a 403 "restriction violated", returned when
// resuming playback that is already active.
func IsAlreadyPlayingError(err error) bool {
	return statusOf(err) == http.StatusForbidden
}

// IsUnauthorized reports a 401 that survived a token refresh.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}
	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func withDevice(path, deviceID string, params map[string]string) string {
	if params == nil {
		params = map[string]string{}
	}
	if deviceID != "" {
		params["device_id"] = deviceID
	}
	return BuildURL(path, params)
}
