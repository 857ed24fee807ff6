package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/seesakulchai/scc-api/internal/api/http/response"
	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
)

// TokenService resolves the admin behind an access token.
type TokenService interface {
	GetAdminID(ctx context.Context, token string) (uuid.UUID, error)
}

// RequireAdmin rejects requests without a valid admin access token with 401
// and stores the admin id in the request context otherwise.
func RequireAdmin(tokens TokenService, contextManager model.ContextManager, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Fail(w, http.StatusUnauthorized, response.MsgUnauthorized)
				return
			}

			adminID, err := tokens.GetAdminID(r.Context(), token)
			if err != nil || adminID == uuid.Nil {
				log.Debug("rejected access token", "path", r.URL.Path, "error", err)
				response.Fail(w, http.StatusUnauthorized, response.MsgUnauthorized)
				return
			}

			ctx := contextManager.SetAdminIDToContext(r.Context(), adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
