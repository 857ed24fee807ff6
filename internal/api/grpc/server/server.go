package server

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
)

var _ model.Server = (*GRPCServer)(nil)

// GRPCServer wraps a gRPC server with address and lifecycle methods.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	addr   string
}

func NewGRPCServer(server *grpc.Server, hs *health.Server, addr string) *GRPCServer {
	return &GRPCServer{server: server, health: hs, addr: addr}
}

// Start serves on the configured address using the provided security layer.
func (s *GRPCServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.server.Serve(listener)
}

// Stop reports NOT_SERVING and drains in-flight calls until ctx expires.
func (s *GRPCServer) Stop(ctx context.Context) error {
	if s.health != nil {
		s.health.Shutdown()
	}

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return fmt.Errorf("graceful stop interrupted: %w", ctx.Err())
	}
}

func (s *GRPCServer) Address() string {
	return s.addr
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WatchHealth flips the overall serving status according to pinger until ctx is done.
func WatchHealth(ctx context.Context, hs *health.Server, pinger Pinger, interval time.Duration, logger *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_SERVING
	for {
		next := healthpb.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := pinger.Ping(pingCtx)
		cancel()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			next = healthpb.HealthCheckResponse_NOT_SERVING
		}
		if next != last {
			logger.Warn("health status changed", "status", next.String(), "error", err)
			last = next
		}
		hs.SetServingStatus("", next)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
