package router

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/seesakulchai/scc-api/internal/mocks"
	"github.com/seesakulchai/scc-api/internal/testutil"
)

func dial(t *testing.T, tokens *mocks.TokenService, cm *mocks.ContextManager) (*grpc.ClientConn, func(healthpb.HealthCheckResponse_ServingStatus)) {
	t.Helper()

	s, hs := New(tokens, cm, testutil.MakeNoopLogger()).Register()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, func(st healthpb.HealthCheckResponse_ServingStatus) { hs.SetServingStatus("", st) }
}

func TestRouter_HealthIsPublic(t *testing.T) {
	t.Parallel()

	conn, setStatus := dial(t, mocks.NewTokenService(t), mocks.NewContextManager(t))
	client := healthpb.NewHealthClient(conn)

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	resp, err = client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestRouter_ReflectionRequiresAdmin(t *testing.T) {
	t.Parallel()

	t.Run("no token", func(t *testing.T) {
		conn, _ := dial(t, mocks.NewTokenService(t), mocks.NewContextManager(t))
		stream, err := reflectionpb.NewServerReflectionClient(conn).ServerReflectionInfo(context.Background())
		require.NoError(t, err)
		_ = stream.Send(&reflectionpb.ServerReflectionRequest{
			MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{},
		})
		_, err = stream.Recv()
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("admin token", func(t *testing.T) {
		adminID := uuid.New()
		tokens := mocks.NewTokenService(t)
		tokens.On("GetAdminID", mock.Anything, "access").Return(adminID, nil).Once()
		cm := mocks.NewContextManager(t)
		cm.On("SetAdminIDToContext", mock.Anything, adminID).Return(
			func(ctx context.Context, _ uuid.UUID) context.Context { return ctx },
		).Once()

		conn, _ := dial(t, tokens, cm)
		ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer access")
		stream, err := reflectionpb.NewServerReflectionClient(conn).ServerReflectionInfo(ctx)
		require.NoError(t, err)
		require.NoError(t, stream.Send(&reflectionpb.ServerReflectionRequest{
			MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{},
		}))
		resp, err := stream.Recv()
		require.NoError(t, err)

		var names []string
		for _, svc := range resp.GetListServicesResponse().GetService() {
			names = append(names, svc.GetName())
		}
		assert.Contains(t, names, healthpb.Health_ServiceDesc.ServiceName)
		_ = stream.CloseSend()
	})
}
