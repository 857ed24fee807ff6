package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apicontext "github.com/seesakulchai/scc-api/internal/api/context"
	"github.com/seesakulchai/scc-api/internal/mocks"
	"github.com/seesakulchai/scc-api/internal/model"
	"github.com/seesakulchai/scc-api/internal/testutil"
)

func doRequest(ctx context.Context, h http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		setup      func(svc *mocks.AuthService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "success",
			body: `{"email":"admin@scc.co.th","password":"pw"}`,
			setup: func(svc *mocks.AuthService) {
				svc.On("Login", mock.Anything, "admin@scc.co.th", "pw").
					Return(model.TokenPair{AccessToken: "A", RefreshToken: "R"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"token":"A","refreshToken":"R"}`,
		},
		{
			name: "bad credentials",
			body: `{"email":"admin@scc.co.th","password":"nope"}`,
			setup: func(svc *mocks.AuthService) {
				svc.On("Login", mock.Anything, "admin@scc.co.th", "nope").
					Return(model.TokenPair{}, model.ErrInvalidCredentials).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"ok":false,"message":"Invalid credentials"}`,
		},
		{
			name:       "missing password",
			body:       `{"email":"admin@scc.co.th"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"ok":false,"message":"Bad request"}`,
		},
		{
			name:       "malformed json",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"ok":false,"message":"Bad request"}`,
		},
		{
			name:       "trailing data",
			body:       `{"email":"admin@scc.co.th","password":"pw"} x`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"ok":false,"message":"Bad request"}`,
		},
		{
			name: "store failure",
			body: `{"email":"admin@scc.co.th","password":"pw"}`,
			setup: func(svc *mocks.AuthService) {
				svc.On("Login", mock.Anything, "admin@scc.co.th", "pw").
					Return(model.TokenPair{}, assert.AnError).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"ok":false,"message":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewAuthService(t)
			if tt.setup != nil {
				tt.setup(svc)
			}
			h := NewAuth(svc, apicontext.NewManager(), testutil.MakeNoopLogger())

			rec := doRequest(context.Background(), h.Login, http.MethodPost, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestAuth_Refresh(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		svcErr     error
		callsSvc   bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "rotates",
			body:       `{"refreshToken":"R1"}`,
			callsSvc:   true,
			wantStatus: http.StatusOK,
			wantBody:   `{"token":"A2","refreshToken":"R2"}`,
		},
		{
			name:       "revoked",
			body:       `{"refreshToken":"R1"}`,
			callsSvc:   true,
			svcErr:     model.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"ok":false,"message":"Invalid refresh token"}`,
		},
		{
			name:       "missing token",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"ok":false,"message":"Bad request"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewAuthService(t)
			if tt.callsSvc {
				pair := model.TokenPair{}
				if tt.svcErr == nil {
					pair = model.TokenPair{AccessToken: "A2", RefreshToken: "R2"}
				}
				svc.On("Refresh", mock.Anything, "R1").Return(pair, tt.svcErr).Once()
			}
			h := NewAuth(svc, apicontext.NewManager(), testutil.MakeNoopLogger())

			rec := doRequest(context.Background(), h.Refresh, http.MethodPost, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestAuth_Logout(t *testing.T) {
	t.Parallel()

	t.Run("revokes", func(t *testing.T) {
		svc := mocks.NewAuthService(t)
		svc.On("Logout", mock.Anything, "R1").Return(nil).Once()
		h := NewAuth(svc, apicontext.NewManager(), testutil.MakeNoopLogger())

		rec := doRequest(context.Background(), h.Logout, http.MethodPost, `{"refreshToken":"R1"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	})

	t.Run("no token is still ok", func(t *testing.T) {
		h := NewAuth(mocks.NewAuthService(t), apicontext.NewManager(), testutil.MakeNoopLogger())

		rec := doRequest(context.Background(), h.Logout, http.MethodPost, `{}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := mocks.NewAuthService(t)
		svc.On("Logout", mock.Anything, "R1").Return(assert.AnError).Once()
		h := NewAuth(svc, apicontext.NewManager(), testutil.MakeNoopLogger())

		rec := doRequest(context.Background(), h.Logout, http.MethodPost, `{"refreshToken":"R1"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAuth_Me(t *testing.T) {
	t.Parallel()

	cm := apicontext.NewManager()
	id := uuid.MustParse("6f1c1e5e-0000-4000-8000-000000000001")

	t.Run("returns admin", func(t *testing.T) {
		svc := mocks.NewAuthService(t)
		svc.On("GetAdmin", mock.Anything, id).Return(model.Admin{ID: id, Email: "admin@scc.co.th"}, nil).Once()
		h := NewAuth(svc, cm, testutil.MakeNoopLogger())

		rec := doRequest(cm.SetAdminIDToContext(context.Background(), id), h.Me, http.MethodGet, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":"6f1c1e5e-0000-4000-8000-000000000001","email":"admin@scc.co.th"}`, rec.Body.String())
	})

	t.Run("deleted admin", func(t *testing.T) {
		svc := mocks.NewAuthService(t)
		svc.On("GetAdmin", mock.Anything, id).Return(model.Admin{}, model.ErrNotFound).Once()
		h := NewAuth(svc, cm, testutil.MakeNoopLogger())

		rec := doRequest(cm.SetAdminIDToContext(context.Background(), id), h.Me, http.MethodGet, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unauthenticated context", func(t *testing.T) {
		h := NewAuth(mocks.NewAuthService(t), cm, testutil.MakeNoopLogger())

		rec := doRequest(context.Background(), h.Me, http.MethodGet, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
