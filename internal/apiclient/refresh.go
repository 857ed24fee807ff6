package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

// Refresher exchanges a refresh token for a new access token. The returned
// token may carry a rotated refresh token.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

type refreshResult struct {
	token string
	err   error
}

// refreshAccessToken runs at most one refresh at a time. The first caller
// drives the refresh; callers arriving while it is in flight wait for its
// outcome instead of starting their own. The driver reads the refresh token
// only after taking the role, so a token rotated by a previous cycle is
// never presented twice.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.refreshing {
		wait := make(chan refreshResult, 1)
		c.pending = append(c.pending, wait)
		c.mu.Unlock()

		select {
		case res := <-wait:
			return res.token, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	res := refreshResult{err: fmt.Errorf("%w: refresh aborted", ErrRefreshFailed)}
	defer func() { c.settle(res) }()

	res = c.runRefresh(ctx)
	return res.token, res.err
}

// settle ends the refresh cycle: every waiter gets res exactly once.
func (c *Client) settle(res refreshResult) {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.refreshing = false
	c.mu.Unlock()

	for _, wait := range pending {
		wait <- res
	}
}

func (c *Client) runRefresh(ctx context.Context) refreshResult {
	// One caller going away must not fail the refresh for everyone waiting on it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	defer cancel()

	var (
		token *oauth2.Token
		err   error
	)
	// Empty when a previous cycle failed and cleared the session.
	if refreshToken := c.refreshTokenOrEmpty(); refreshToken == "" {
		err = errors.New("no refresh token")
	} else {
		token, err = c.refresher.RefreshToken(ctx, refreshToken)
	}
	if err == nil && (token == nil || token.AccessToken == "") {
		err = errors.New("refresh response has no access token")
	}
	if err == nil {
		err = c.storeTokens(token)
	}
	if err != nil {
		c.clearTokens()
		if !errors.Is(err, ErrRefreshFailed) {
			err = fmt.Errorf("%w: %w", ErrRefreshFailed, err)
		}
		c.logger.Warn("access token refresh failed, session cleared", "error", err)
		return refreshResult{err: err}
	}

	c.logger.Debug("access token refreshed")
	return refreshResult{token: token.AccessToken}
}

func (c *Client) storeTokens(token *oauth2.Token) error {
	if err := c.store.Set(AccessTokenKey, token.AccessToken); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if token.RefreshToken != "" {
		if err := c.store.Set(RefreshTokenKey, token.RefreshToken); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
	}
	return nil
}

var _ Refresher = (*HTTPRefresher)(nil)

// HTTPRefresher calls POST /api/admin/auth/refresh. It bypasses the
// Client's interception so a rejected refresh never triggers another refresh.
type HTTPRefresher struct {
	endpoint string
	client   *http.Client
}

// NewHTTPRefresher creates a refresher for the API served at baseURL.
func NewHTTPRefresher(baseURL string, client *http.Client) *HTTPRefresher {
	return &HTTPRefresher{endpoint: baseURL + refreshPath, client: client}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken succeeds only on a 2xx response whose JSON body has a
// non-empty string "token". A string "refreshToken" in the body, if any,
// is returned as the rotated refresh token.
func (r *HTTPRefresher) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, &HTTPError{StatusCode: res.StatusCode, Body: data})
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed response body", ErrRefreshFailed)
	}

	access := gjson.GetBytes(data, "token")
	if access.Type != gjson.String || access.Str == "" {
		return nil, fmt.Errorf("%w: response has no token", ErrRefreshFailed)
	}

	token := &oauth2.Token{AccessToken: access.Str, TokenType: "Bearer"}
	if rotated := gjson.GetBytes(data, "refreshToken"); rotated.Type == gjson.String {
		token.RefreshToken = rotated.Str
	}
	return token, nil
}
