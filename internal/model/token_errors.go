package model

import "errors"

// Reasons a presented refresh token is refused. Callers see them wrapped in
// ErrInvalidCredentials.
var (
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)
