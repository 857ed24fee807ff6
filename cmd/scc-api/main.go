package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	apictx "github.com/seesakulchai/scc-api/internal/api/context"
	grpcrouter "github.com/seesakulchai/scc-api/internal/api/grpc/router"
	grpcserver "github.com/seesakulchai/scc-api/internal/api/grpc/server"
	httprouter "github.com/seesakulchai/scc-api/internal/api/http/router"
	"github.com/seesakulchai/scc-api/internal/config"
	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
	"github.com/seesakulchai/scc-api/internal/repository/postgres"
	"github.com/seesakulchai/scc-api/internal/server"
	"github.com/seesakulchai/scc-api/internal/service"
	storage "github.com/seesakulchai/scc-api/internal/storage/minio"
	"github.com/seesakulchai/scc-api/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig(".env")
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logAppVersion()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", "error", err)
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *logger.Logger) error {
	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer db.Close()

	adminRepo := postgres.NewAdminRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, token.WithTTL(cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL))

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, tokenManager.RefreshTTL(), nil, logger,
		service.WithAdminStore(adminRepo))
	authService, err := service.NewAuth(adminRepo, tokenService, logger)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	if cfg.Admin.Email != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	} else {
		logger.Warn("ADMIN_EMAIL is not set, skipping admin bootstrap")
	}

	presigner, err := storage.NewClient(ctx, storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	uploadService := service.NewUpload(presigner, logger)

	ctxMgr := apictx.NewManager()

	hr := httprouter.New(authService, uploadService, tokenService, ctxMgr, logger, httprouter.Options{
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		LoginAttempts:   cfg.RateLimit.LoginAttempts,
		LoginInterval:   cfg.RateLimit.LoginInterval,
		TrustedIPHeader: cfg.RateLimit.TrustedIPHeader,
	})
	handler, err := hr.Register()
	if err != nil {
		return fmt.Errorf("failed to build http router: %w", err)
	}
	httpServer := server.NewHTTPServer(handler, cfg.HTTP.Addr)
	httpSL := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	gs, hs := grpcrouter.New(tokenService, ctxMgr, logger).Register()
	grpcServer := grpcserver.NewGRPCServer(gs, hs, cfg.GRPC.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve(logger, httpServer, httpSL)
	})
	g.Go(func() error {
		return serve(logger, grpcServer, server.NewPlainListener())
	})
	g.Go(func() error {
		grpcserver.WatchHealth(gCtx, hs, db, cfg.GRPC.HealthInterval, logger)
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var firstErr error
		for _, s := range []model.Server{httpServer, grpcServer} {
			if err := s.Stop(shutdownCtx); err != nil {
				logger.Error("error during server shutdown", "error", err, "address", s.Address())
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		if err := hr.Close(shutdownCtx); err != nil {
			logger.Error("failed to close rate limiter", "error", err)
		}
		return firstErr
	})

	return g.Wait()
}

func serve(logger *logger.Logger, s model.Server, sl model.SecurityLayer) error {
	logger.Info("Starting server on", "address", s.Address())
	if err := s.Start(sl); err != nil {
		return fmt.Errorf("server on %s failed: %w", s.Address(), err)
	}
	return nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
