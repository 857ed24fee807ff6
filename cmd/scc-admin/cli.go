package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/manifoldco/promptui"

	"github.com/seesakulchai/scc-api/internal/apiclient"
	"github.com/seesakulchai/scc-api/internal/logger"
)

// Globals are flags shared by every command.
type Globals struct {
	BaseURL  string        `help:"Admin API base URL" name:"base-url" default:"http://localhost:8080" env:"SCC_API_BASE_URL"`
	StateDir string        `help:"Directory holding the session tokens" name:"state-dir" default:"${state_dir}" env:"SCC_STATE_DIR"`
	Timeout  time.Duration `help:"Per-command timeout" default:"30s"`
	Debug    bool          `help:"Debug logging" short:"d"`

	out io.Writer `kong:"-"`
}

// CLI represents command structure
type CLI struct {
	Globals

	Login   LoginCmd   `cmd:"true" help:"Sign in and store the session"`
	Whoami  WhoamiCmd  `cmd:"true" help:"Show the signed in admin"`
	Presign PresignCmd `cmd:"true" help:"Create a presigned upload URL"`
	Logout  LogoutCmd  `cmd:"true" help:"Revoke and forget the session"`
	Version VersionCmd `cmd:"true" help:"Print version"`
}

func (g *Globals) writer() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

func (g *Globals) client() (*apiclient.Client, error) {
	level := int(slog.LevelWarn)
	if g.Debug {
		level = int(slog.LevelDebug)
	}
	return apiclient.New(g.BaseURL, apiclient.NewDiskStore(g.StateDir),
		apiclient.WithLogger(logger.NewWithWriter(os.Stderr, level)),
		apiclient.WithUserAgent("scc-admin/"+buildVersion),
	)
}

func (g *Globals) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), g.Timeout)
}

// LoginCmd signs in with email and password.
type LoginCmd struct {
	Email    string `help:"Admin email" required:"true" env:"SCC_ADMIN_EMAIL"`
	Password string `help:"Admin password, prompted for when empty" env:"SCC_ADMIN_PASSWORD"`

	prompt func(label string) (string, error) `kong:"-"`
}

func (c *LoginCmd) Run(g *Globals) error {
	password := c.Password
	if password == "" {
		ask := c.prompt
		if ask == nil {
			ask = promptPassword
		}
		p, err := ask("Password")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = p
	}

	client, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := g.context()
	defer cancel()

	if err := client.Login(ctx, c.Email, password); err != nil {
		if apiclient.IsUnauthorized(err) {
			return errors.New("invalid email or password")
		}
		return err
	}

	fmt.Fprintf(g.writer(), "Signed in as %s\n", c.Email)
	return nil
}

func promptPassword(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(s string) error {
			if s == "" {
				return errors.New("password must not be empty")
			}
			return nil
		},
	}
	return prompt.Run()
}

// WhoamiCmd prints the admin behind the stored session.
type WhoamiCmd struct{}

type meResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *WhoamiCmd) Run(g *Globals) error {
	client, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := g.context()
	defer cancel()

	resp, err := client.Get(ctx, "/api/admin/auth/me")
	if err != nil {
		return sessionError(err)
	}

	var me meResponse
	if err := resp.Decode(&me); err != nil {
		return err
	}
	fmt.Fprintf(g.writer(), "%s (%s)\n", me.Email, me.ID)
	return nil
}

// PresignCmd asks the API for a presigned PUT URL.
type PresignCmd struct {
	Key         string `arg:"" help:"Object key"`
	ContentType string `help:"Content type the upload will be sent with" name:"content-type" required:"true"`
	ExpiresIn   int    `help:"URL lifetime in seconds (1-3600), server default when zero" name:"expires-in"`
}

type presignRequest struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	ExpiresIn   int    `json:"expiresIn,omitempty"`
}

type presignResponse struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
}

func (c *PresignCmd) Run(g *Globals) error {
	client, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := g.context()
	defer cancel()

	resp, err := client.Post(ctx, "/presign", presignRequest{
		Key:         c.Key,
		ContentType: c.ContentType,
		ExpiresIn:   c.ExpiresIn,
	})
	if err != nil {
		return sessionError(err)
	}

	var out presignResponse
	if err := resp.Decode(&out); err != nil {
		return err
	}
	fmt.Fprintln(g.writer(), out.URL)
	return nil
}

// LogoutCmd revokes the refresh token and clears local state.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(g *Globals) error {
	client, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := g.context()
	defer cancel()

	client.Logout(ctx)
	fmt.Fprintln(g.writer(), "Signed out")
	return nil
}

// VersionCmd prints build information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintf(g.writer(), "Build version: %s\nBuild date: %s\nBuild commit: %s\n", buildVersion, buildDate, buildCommit)
	return nil
}

func sessionError(err error) error {
	var httpErr *apiclient.HTTPError
	switch {
	case errors.Is(err, apiclient.ErrRefreshFailed):
		return errors.New("session expired, run login again")
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized:
		return errors.New("not signed in, run login first")
	}
	return err
}
