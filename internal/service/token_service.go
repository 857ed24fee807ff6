package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
)

// TokenService issues, rotates and revokes admin session tokens.
// Access tokens are stateless JWTs; refresh tokens are additionally
// persisted by hash so that they can be rotated and revoked.
type TokenService struct {
	manager    model.TokenManager
	store      model.RefreshTokenStore
	refreshTTL time.Duration
	admins     model.AdminStore
	clock      clockwork.Clock
	logger     *logger.Logger
}

// TokenServiceOption configures TokenService.
type TokenServiceOption func(*TokenService)

// WithAdminStore makes Refresh confirm the admin account still exists
// before a new pair is issued.
func WithAdminStore(admins model.AdminStore) TokenServiceOption {
	return func(s *TokenService) {
		s.admins = admins
	}
}

func NewTokenService(
	manager model.TokenManager,
	store model.RefreshTokenStore,
	refreshTTL time.Duration,
	clock clockwork.Clock,
	logger *logger.Logger,
	opts ...TokenServiceOption,
) *TokenService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &TokenService{
		manager:    manager,
		store:      store,
		refreshTTL: refreshTTL,
		clock:      clock,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a fresh token pair for the admin and persists the refresh half.
func (s *TokenService) Issue(ctx context.Context, adminID uuid.UUID) (model.TokenPair, error) {
	pair, err := s.issue(ctx, adminID, nil)
	if err != nil {
		return model.TokenPair{}, err
	}

	s.logger.Debug("Token service: issued token pair", "admin_id", adminID)
	return pair, nil
}

// Refresh validates the presented refresh token, revokes it and returns a new pair.
// Replaying an already revoked token revokes every session of that admin.
func (s *TokenService) Refresh(ctx context.Context, presented string) (model.TokenPair, error) {
	adminID, jti, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("%w: %w", model.ErrInvalidCredentials, err)
	}

	rt, err := s.store.GetByJTI(ctx, jti)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, fmt.Errorf("%w: unknown refresh token", model.ErrInvalidCredentials)
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := validateRecord(rt, adminID, hashRefresh(presented), s.clock.Now()); err != nil {
		if errors.Is(err, model.ErrTokenRevoked) {
			s.revokeAfterReplay(ctx, adminID, jti)
		}
		return model.TokenPair{}, fmt.Errorf("%w: %w", model.ErrInvalidCredentials, err)
	}

	if err := s.checkAdmin(ctx, adminID); err != nil {
		return model.TokenPair{}, err
	}

	// The conditional revoke is the point of no return: of several concurrent
	// refreshes with one token only the caller that revokes it gets a new pair.
	err = s.store.RevokeByJTI(ctx, jti)
	switch {
	case errors.Is(err, model.ErrTokenRevoked):
		s.revokeAfterReplay(ctx, adminID, jti)
		return model.TokenPair{}, fmt.Errorf("%w: %w", model.ErrInvalidCredentials, err)
	case errors.Is(err, model.ErrNotFound):
		return model.TokenPair{}, fmt.Errorf("%w: unknown refresh token", model.ErrInvalidCredentials)
	case err != nil:
		return model.TokenPair{}, fmt.Errorf("failed to revoke old refresh token: %w", err)
	}

	return s.issue(ctx, adminID, &rt.JTI)
}

func (s *TokenService) checkAdmin(ctx context.Context, adminID uuid.UUID) error {
	if s.admins == nil {
		return nil
	}
	_, err := s.admins.GetByID(ctx, adminID)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Token service: refresh for deleted admin", "admin_id", adminID)
		if rerr := s.store.RevokeAllByAdmin(ctx, adminID); rerr != nil {
			s.logger.Error("Token service: failed to revoke admin sessions",
				"admin_id", adminID,
				"error", rerr.Error())
		}
		return fmt.Errorf("%w: admin no longer exists", model.ErrInvalidCredentials)
	}
	if err != nil {
		return fmt.Errorf("failed to get admin: %w", err)
	}
	return nil
}

func (s *TokenService) revokeAfterReplay(ctx context.Context, adminID uuid.UUID, jti string) {
	s.logger.Warn("Token service: revoked refresh token replayed",
		"admin_id", adminID,
		"jti", jti)
	if err := s.store.RevokeAllByAdmin(ctx, adminID); err != nil {
		s.logger.Error("Token service: failed to revoke admin sessions",
			"admin_id", adminID,
			"error", err.Error())
	}
}

// RevokeByToken revokes the presented refresh token. Unknown or malformed
// tokens are not an error: logout is idempotent.
func (s *TokenService) RevokeByToken(ctx context.Context, presented string) error {
	_, jti, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		s.logger.Debug("Token service: ignoring unparsable refresh token on revoke", "error", err.Error())
		return nil
	}

	err = s.store.RevokeByJTI(ctx, jti)
	if err != nil && !errors.Is(err, model.ErrNotFound) && !errors.Is(err, model.ErrTokenRevoked) {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// GetAdminID returns the admin an access token was issued to.
func (s *TokenService) GetAdminID(_ context.Context, token string) (uuid.UUID, error) {
	adminID, err := s.manager.ParseAccessToken(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", model.ErrInvalidCredentials, err)
	}
	return adminID, nil
}

func (s *TokenService) issue(ctx context.Context, adminID uuid.UUID, rotatedFrom *string) (model.TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(adminID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(adminID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	now := s.clock.Now()
	rt := model.RefreshToken{
		ID:             uuid.New(),
		JTI:            jti,
		AdminID:        adminID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(s.refreshTTL),
		RotatedFromJTI: rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, rt); err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRecord(rt model.RefreshToken, adminID uuid.UUID, presentedHash []byte, now time.Time) error {
	if rt.RevokedAt != nil {
		return model.ErrTokenRevoked
	}
	if now.After(rt.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if rt.AdminID != adminID || subtle.ConstantTimeCompare(rt.TokenHash, presentedHash) != 1 {
		return model.ErrTokenMismatch
	}
	return nil
}
