package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
)

// TokenService resolves the admin behind an access token.
type TokenService interface {
	GetAdminID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens carried in gRPC metadata.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc is an auth.AuthFunc for go-grpc-middleware.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("authorization"); len(values) > 0 {
			token, _ = strings.CutPrefix(values[0], "Bearer ")
		}
	}
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing authorization token")
	}

	adminID, err := m.tokenService.GetAdminID(ctx, token)
	if err != nil || adminID == uuid.Nil {
		m.logger.Debug("gRPC auth rejected", "error", err)
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}

	return m.contextManager.SetAdminIDToContext(ctx, adminID), nil
}
