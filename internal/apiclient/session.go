package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates an admin and stores the issued token pair.
func (c *Client) Login(ctx context.Context, email, password string) error {
	payload, err := encodeBody(loginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	resp, err := c.dispatch(ctx, &request{method: http.MethodPost, url: c.endpoint(loginPath), body: payload}, "")
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	var out loginResponse
	if err := resp.Decode(&out); err != nil {
		return err
	}
	if out.Token == "" || out.RefreshToken == "" {
		return errors.New("login response is missing tokens")
	}

	return c.storeTokens(&oauth2.Token{AccessToken: out.Token, RefreshToken: out.RefreshToken})
}

// Logout notifies the server on a best-effort basis and always removes
// both stored tokens. A failed notification is logged and ignored.
func (c *Client) Logout(ctx context.Context) {
	if refreshToken := c.refreshTokenOrEmpty(); refreshToken != "" {
		if err := c.notifyLogout(ctx, refreshToken); err != nil {
			c.logger.Debug("logout notification failed", "error", err)
		}
	}

	c.clearTokens()
}

func (c *Client) notifyLogout(ctx context.Context, refreshToken string) error {
	payload, err := encodeBody(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	req := &request{method: http.MethodPost, url: c.endpoint(logoutPath), body: payload}
	_, err = c.dispatch(ctx, req, c.accessToken())
	return err
}
