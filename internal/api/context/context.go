package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/seesakulchai/scc-api/internal/model"
)

type ctxKey int

const (
	adminIDKey ctxKey = iota
	requestIDKey
)

var _ model.ContextManager = (*Manager)(nil)

// Manager stores the authenticated admin in a request context.
// It works the same for HTTP requests and gRPC calls.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetAdminIDToContext returns a copy of ctx carrying adminID.
func (m *Manager) SetAdminIDToContext(ctx context.Context, adminID uuid.UUID) context.Context {
	return context.WithValue(ctx, adminIDKey, adminID)
}

// GetAdminIDFromContext reports the admin set by SetAdminIDToContext.
// uuid.Nil is treated as absent.
func (m *Manager) GetAdminIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(adminIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID attaches a request correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the correlation id, or "" if none was set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
