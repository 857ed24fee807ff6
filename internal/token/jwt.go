package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/seesakulchai/scc-api/internal/model"
)

// Claims represents JWT claims with token type and admin ID.
type Claims struct {
	jwt.RegisteredClaims
	AdminID   uuid.UUID `json:"admin_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clockwork.Clock
}

const (
	// DefaultAccessTTL is the lifetime of an access token.
	DefaultAccessTTL = 15 * time.Minute
	// DefaultRefreshTTL is the lifetime of a refresh token.
	DefaultRefreshTTL = 30 * 24 * time.Hour

	issuer      = "scc-api"
	typeAccess  = "access"
	typeRefresh = "refresh"
)

var _ model.TokenManager = (*JWT)(nil)

// Option configures JWT.
type Option func(*JWT)

// WithTTL overrides access and refresh token lifetimes. Zero keeps the default.
func WithTTL(access, refresh time.Duration) Option {
	return func(j *JWT) {
		if access > 0 {
			j.accessTTL = access
		}
		if refresh > 0 {
			j.refreshTTL = refresh
		}
	}
}

// WithClock replaces the wall clock, used by tests.
func WithClock(c clockwork.Clock) Option {
	return func(j *JWT) { j.clock = c }
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string, opts ...Option) *JWT {
	j := &JWT{
		secretKey:  secretKey,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// RefreshTTL reports the configured refresh token lifetime.
func (j *JWT) RefreshTTL() time.Duration {
	return j.refreshTTL
}

// GenerateAccessToken creates a short-lived access token.
func (j *JWT) GenerateAccessToken(adminID uuid.UUID) (string, error) {
	tokenString, err := j.sign(adminID, typeAccess, "", j.accessTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// GenerateRefreshToken creates a long-lived refresh token and returns its JTI.
func (j *JWT) GenerateRefreshToken(adminID uuid.UUID) (string, string, error) {
	jti := uuid.NewString()
	tokenString, err := j.sign(adminID, typeRefresh, jti, j.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return tokenString, jti, nil
}

func (j *JWT) sign(adminID uuid.UUID, tokenType, jti string, ttl time.Duration) (string, error) {
	now := j.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    issuer,
			Subject:   adminID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AdminID:   adminID,
		TokenType: tokenType,
	})
	return token.SignedString([]byte(j.secretKey))
}

// ParseAccessToken validates and extracts the admin ID from an access token.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims, err := j.parse(tokenString, typeAccess)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	return claims.AdminID, nil
}

// ParseRefreshToken validates and extracts the admin ID and JTI from a refresh token.
func (j *JWT) ParseRefreshToken(tokenString string) (uuid.UUID, string, error) {
	claims, err := j.parse(tokenString, typeRefresh)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to parse refresh token: %w", err)
	}
	if claims.ID == "" {
		return uuid.Nil, "", fmt.Errorf("refresh token has no jti")
	}
	return claims.AdminID, claims.ID, nil
}

func (j *JWT) parse(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	},
		jwt.WithTimeFunc(j.clock.Now),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return claims, nil
}
