// Package apiclient implements the HTTP client used by the SCC back-office
// to talk to the admin API. It attaches the stored access token to every
// request and, when the server answers 401, refreshes the token once for all
// concurrently failing requests before retrying each of them exactly once.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/seesakulchai/scc-api/internal/logger"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultRefreshTimeout = 30 * time.Second

	refreshPath = "/api/admin/auth/refresh"
	loginPath   = "/api/admin/auth/login"
	logoutPath  = "/api/admin/auth/logout"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Client is safe for concurrent use.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          TokenStore
	refresher      Refresher
	refreshTimeout time.Duration
	userAgent      string
	logger         *logger.Logger

	mu         sync.Mutex // protects the refresh cycle below
	refreshing bool
	pending    []chan refreshResult
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger. Records are tagged component=apiclient.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.logger = l.With("component", "apiclient") }
}

// WithRefresher replaces the HTTP refresh endpoint caller.
func WithRefresher(r Refresher) Option {
	return func(c *Client) { c.refresher = r }
}

// WithRefreshTimeout bounds a single refresh call.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Client) { c.refreshTimeout = d }
}

// WithUserAgent sets the User-Agent header on outgoing requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client for the API served at baseURL.
func New(baseURL string, store TokenStore, opts ...Option) (*Client, error) {
	if err := validateBaseURL(baseURL); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("token store is required")
	}

	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{Timeout: defaultTimeout},
		store:          store,
		refreshTimeout: defaultRefreshTimeout,
		logger:         logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.refresher == nil {
		c.refresher = NewHTTPRefresher(c.baseURL, c.httpClient)
	}

	return c, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("base url must include a host")
	}
	return nil
}

// request is the replayable form of an outgoing call.
type request struct {
	method string
	url    string
	body   []byte
	header http.Header
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, nil)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, nil)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends a request to path relative to the base address. body, when
// non-nil, is sent as JSON. Any Authorization entry in header is dropped.
//
// Non-2xx responses are returned together with an *HTTPError. On a 401 the
// client refreshes the access token (sharing one refresh call between all
// concurrent callers) and retries once; if the refresh fails the error wraps
// ErrRefreshFailed and both stored tokens are removed.
func (c *Client) Do(ctx context.Context, method, path string, body any, header http.Header) (*Response, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req := &request{
		method: method,
		url:    c.endpoint(path),
		body:   payload,
		header: header.Clone(),
	}

	resp, err := c.dispatch(ctx, req, c.accessToken())
	if !IsUnauthorized(err) {
		return resp, err
	}

	if c.refreshTokenOrEmpty() == "" {
		return resp, err
	}

	token, err := c.refreshAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	// The retried dispatch is final: a second 401 is returned as-is.
	return c.dispatch(ctx, req, token)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) refreshTokenOrEmpty() string {
	token, err := c.store.Get(RefreshTokenKey)
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) {
			c.logger.Warn("failed to read refresh token", "error", err)
		}
		return ""
	}
	return token
}

func (c *Client) accessToken() string {
	token, err := c.store.Get(AccessTokenKey)
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) {
			c.logger.Warn("failed to read access token", "error", err)
		}
		return ""
	}
	return token
}

func (c *Client) dispatch(ctx context.Context, r *request, token string) (*Response, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range r.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Del("Authorization")
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &Response{StatusCode: res.StatusCode, Header: res.Header, Body: data}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return resp, &HTTPError{StatusCode: res.StatusCode, Body: data}
	}

	c.logger.Debug("request completed", "method", r.method, "url", r.url, "status", res.StatusCode)
	return resp, nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if raw, ok := body.([]byte); ok {
		return raw, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return data, nil
}

func (c *Client) clearTokens() {
	for _, key := range []string{AccessTokenKey, RefreshTokenKey} {
		if err := c.store.Delete(key); err != nil {
			c.logger.Error("failed to delete token", "key", key, "error", err)
		}
	}
}
