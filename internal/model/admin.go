package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AdminStore defines persistence operations for back-office administrators.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (Admin, error)
	Create(ctx context.Context, admin Admin) (Admin, error)
}

// Admin represents a back-office account with its password hash.
type Admin struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
