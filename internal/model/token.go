package model

import "github.com/google/uuid"

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(adminID uuid.UUID) (string, error)
	GenerateRefreshToken(adminID uuid.UUID) (token string, jti string, err error)
	ParseAccessToken(token string) (uuid.UUID, error)
	ParseRefreshToken(token string) (adminID uuid.UUID, jti string, err error)
}
