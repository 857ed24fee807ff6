package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager carries the authenticated admin through a request context.
// The HTTP middleware and the gRPC auth interceptor share one implementation.
type ContextManager interface {
	SetAdminIDToContext(ctx context.Context, adminID uuid.UUID) context.Context
	GetAdminIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
