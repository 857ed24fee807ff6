package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/seesakulchai/scc-api/internal/api/http/response"
	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
)

// AuthService is the admin session API used by the handlers.
type AuthService interface {
	Login(ctx context.Context, email, password string) (model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetAdmin(ctx context.Context, id uuid.UUID) (model.Admin, error)
}

type Auth struct {
	service        AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuth(service AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{service: service, contextManager: contextManager, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type meResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Login handles POST /api/admin/auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decode(w, r, &in); err != nil || in.Email == "" || in.Password == "" {
		response.Fail(w, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	pair, err := h.service.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, tokenResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Refresh handles POST /api/admin/auth/refresh.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decode(w, r, &in); err != nil || in.RefreshToken == "" {
		response.Fail(w, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	pair, err := h.service.Refresh(r.Context(), in.RefreshToken)
	if errors.Is(err, model.ErrInvalidCredentials) {
		response.Fail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, tokenResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Logout handles POST /api/admin/auth/logout. It answers ok for unknown or
// missing tokens.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decode(w, r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	if in.RefreshToken != "" {
		if err := h.service.Logout(r.Context(), in.RefreshToken); err != nil {
			handleError(w, r, h.logger, err)
			return
		}
	}

	response.OK(w)
}

// Me handles GET /api/admin/auth/me. It must run behind RequireAdmin.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.contextManager.GetAdminIDFromContext(r.Context())
	if !ok {
		response.Fail(w, http.StatusUnauthorized, response.MsgUnauthorized)
		return
	}

	admin, err := h.service.GetAdmin(r.Context(), adminID)
	if errors.Is(err, model.ErrNotFound) {
		// Token outlived the account.
		response.Fail(w, http.StatusUnauthorized, response.MsgUnauthorized)
		return
	}
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, meResponse{ID: admin.ID, Email: admin.Email})
}
