package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sethvargo/go-limiter"
	"github.com/sethvargo/go-limiter/httplimit"
	"github.com/sethvargo/go-limiter/memorystore"

	"github.com/seesakulchai/scc-api/internal/api/http/handler"
	"github.com/seesakulchai/scc-api/internal/api/http/middleware"
	"github.com/seesakulchai/scc-api/internal/api/http/response"
	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
)

// Options tune the router's outer surface.
type Options struct {
	AllowedOrigins []string
	// LoginAttempts per LoginInterval and client IP.
	LoginAttempts uint64
	LoginInterval time.Duration
	// TrustedIPHeader names a proxy header (e.g. X-Forwarded-For) to key
	// rate limits on instead of the socket address.
	TrustedIPHeader string
}

// Router wires handlers to the admin and upload routes.
type Router struct {
	authService    handler.AuthService
	uploadService  handler.UploadService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
	opts           Options

	limiterStore limiter.Store
}

func New(
	authService handler.AuthService,
	uploadService handler.UploadService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
	opts Options,
) *Router {
	if opts.LoginAttempts == 0 {
		opts.LoginAttempts = 10
	}
	if opts.LoginInterval <= 0 {
		opts.LoginInterval = time.Minute
	}
	return &Router{
		authService:    authService,
		uploadService:  uploadService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
		opts:           opts,
	}
}

// Register builds the HTTP handler. Close must be called to release the
// rate limiter once the server has stopped.
func (r *Router) Register() (http.Handler, error) {
	store, err := memorystore.New(&memorystore.Config{
		Tokens:   r.opts.LoginAttempts,
		Interval: r.opts.LoginInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit store: %w", err)
	}

	var keyFunc httplimit.KeyFunc
	if r.opts.TrustedIPHeader != "" {
		keyFunc = httplimit.IPKeyFunc(r.opts.TrustedIPHeader)
	} else {
		keyFunc = httplimit.IPKeyFunc()
	}
	loginLimit, err := httplimit.NewMiddleware(store, keyFunc)
	if err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("failed to create rate limit middleware: %w", err)
	}
	r.limiterStore = store

	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)
	uploadHandler := handler.NewUpload(r.uploadService, r.logger)
	requireAdmin := middleware.RequireAdmin(r.tokenService, r.contextManager, r.logger)

	root := chi.NewRouter()
	root.Use(
		middleware.RequestID,
		middleware.Logging(r.logger),
		middleware.Recover(r.logger),
		cors.Handler(cors.Options{
			AllowedOrigins: r.opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}),
	)

	root.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Fail(w, http.StatusNotFound, response.MsgNotFound)
	})
	root.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w)
	})

	root.Route("/api/admin/auth", func(ar chi.Router) {
		ar.With(loginLimit.Handle).Post("/login", authHandler.Login)
		ar.Post("/refresh", authHandler.Refresh)
		ar.Post("/logout", authHandler.Logout)
		ar.With(requireAdmin).Get("/me", authHandler.Me)
	})

	root.Group(func(pr chi.Router) {
		pr.Use(requireAdmin)
		pr.Post("/presign", uploadHandler.Presign)
		pr.Post("/api/uploads/presign", uploadHandler.Presign)
	})

	return root, nil
}

// Close releases the rate limiter.
func (r *Router) Close(ctx context.Context) error {
	if r.limiterStore == nil {
		return nil
	}
	return r.limiterStore.Close(ctx)
}
