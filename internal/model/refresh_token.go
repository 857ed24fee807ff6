package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists issued refresh tokens keyed by their JTI.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByJTI(ctx context.Context, jti string) (RefreshToken, error)
	RevokeByJTI(ctx context.Context, jti string) error
	RevokeAllByAdmin(ctx context.Context, adminID uuid.UUID) error
}

// RefreshToken is the server-side record of an issued refresh token. Only a
// hash of the token is kept. RotatedFromJTI links a rotated token to the one
// it replaced.
type RefreshToken struct {
	ID             uuid.UUID
	JTI            string
	AdminID        uuid.UUID
	TokenHash      []byte
	IssuedAt       time.Time
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	RotatedFromJTI *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
