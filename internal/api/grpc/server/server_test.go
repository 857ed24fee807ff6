package server

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/seesakulchai/scc-api/internal/mocks"
	"github.com/seesakulchai/scc-api/internal/testutil"
)

func TestGRPCServer_Address(t *testing.T) {
	s := NewGRPCServer(grpc.NewServer(), nil, ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestGRPCServer_Stop(t *testing.T) {
	hs := health.NewServer()
	s := NewGRPCServer(grpc.NewServer(), hs, ":0")
	require.NoError(t, s.Stop(context.Background()))

	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestGRPCServer_Start_ListensAndServes(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer(grpc.NewServer(), nil, ":0")
	sec := mocks.NewSecurityLayer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan struct{})
	sec.On("Listen", "tcp", ":0").Return(ln, nil).Run(func(args mock.Arguments) { close(done) })

	served := make(chan error, 1)
	go func() { served <- srv.Start(sec) }()
	<-done
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-served)
}

func TestGRPCServer_Start_ListenError(t *testing.T) {
	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":0").Return(nil, errors.New("busy"))

	err := NewGRPCServer(grpc.NewServer(), nil, ":0").Start(sec)
	assert.ErrorContains(t, err, "failed to listen")
}

type flakyPinger struct {
	fail atomic.Bool
}

func (p *flakyPinger) Ping(context.Context) error {
	if p.fail.Load() {
		return errors.New("db down")
	}
	return nil
}

func TestWatchHealth(t *testing.T) {
	t.Parallel()

	hs := health.NewServer()
	p := &flakyPinger{}
	p.fail.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		WatchHealth(ctx, hs, p, 5*time.Millisecond, testutil.MakeNoopLogger())
		close(stopped)
	}()

	statusOf := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{})
		if err != nil {
			return healthpb.HealthCheckResponse_UNKNOWN
		}
		return resp.GetStatus()
	}

	require.Eventually(t, func() bool {
		return statusOf() == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	p.fail.Store(false)
	require.Eventually(t, func() bool {
		return statusOf() == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped
}
