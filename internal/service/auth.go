package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
)

// Auth authenticates back-office administrators and manages their sessions.
type Auth struct {
	adminStore   model.AdminStore
	tokenService *TokenService
	bcryptCost   int
	dummyHash    []byte
	clock        clockwork.Clock
	logger       *logger.Logger
}

// AuthOption configures Auth.
type AuthOption func(*Auth)

// WithBcryptCost overrides the cost used to hash new admin passwords.
func WithBcryptCost(cost int) AuthOption {
	return func(a *Auth) {
		a.bcryptCost = cost
	}
}

// WithAuthClock sets the clock used for admin timestamps.
func WithAuthClock(clock clockwork.Clock) AuthOption {
	return func(a *Auth) {
		a.clock = clock
	}
}

func NewAuth(
	adminStore model.AdminStore,
	tokenService *TokenService,
	logger *logger.Logger,
	opts ...AuthOption,
) (*Auth, error) {
	a := &Auth{
		adminStore:   adminStore,
		tokenService: tokenService,
		bcryptCost:   bcrypt.DefaultCost,
		clock:        clockwork.NewRealClock(),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(a)
	}

	// Compared against when the email is unknown so both paths cost one bcrypt round.
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), a.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	a.dummyHash = dummy

	return a, nil
}

// Login checks the credentials and returns a new token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (model.TokenPair, error) {
	email = normalizeEmail(email)
	a.logger.Debug("Auth service: admin login attempt", "email", email)

	admin, err := a.adminStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		a.logger.Info("Auth service: login for unknown admin", "email", email)
		return model.TokenPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get admin by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: wrong password", "admin_id", admin.ID)
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	pair, err := a.tokenService.Issue(ctx, admin.ID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: admin logged in", "admin_id", admin.ID)
	return pair, nil
}

// Refresh rotates a refresh token.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	return a.tokenService.Refresh(ctx, refreshToken)
}

// Logout revokes the refresh token. It succeeds for unknown tokens.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	return a.tokenService.RevokeByToken(ctx, refreshToken)
}

// Authenticate resolves an access token to the admin it belongs to.
func (a *Auth) Authenticate(ctx context.Context, accessToken string) (uuid.UUID, error) {
	return a.tokenService.GetAdminID(ctx, accessToken)
}

// GetAdmin returns the admin by id.
func (a *Auth) GetAdmin(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	admin, err := a.adminStore.GetByID(ctx, id)
	if err != nil {
		return model.Admin{}, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

// EnsureAdmin creates the admin account if no account with that email exists.
// An existing account is left untouched, including its password.
func (a *Auth) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", model.ErrInvalidArgument)
	}

	_, err := a.adminStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Debug("Auth service: bootstrap admin already exists", "email", email)
		return nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get admin by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.clock.Now()
	admin, err := a.adminStore.Create(ctx, model.Admin{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	a.logger.Info("Auth service: bootstrap admin created", "admin_id", admin.ID, "email", email)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
