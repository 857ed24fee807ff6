package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/seesakulchai/scc-api/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    grpc.UnaryHandler
		wantCode   codes.Code
		wantLogged string
	}{
		{
			name: "success path",
			handler: func(ctx context.Context, req any) (any, error) {
				return "ok", nil
			},
			wantCode:   codes.OK,
			wantLogged: "gRPC request completed",
		},
		{
			name: "grpc error propagates",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, status.Error(codes.InvalidArgument, "bad input")
			},
			wantCode:   codes.InvalidArgument,
			wantLogged: "status=InvalidArgument",
		},
		{
			name: "plain error is logged as Unknown",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, errors.New("boom")
			},
			wantCode:   codes.Unknown,
			wantLogged: "error=boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lg, buf := testutil.MakeBufferLogger()
			info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}
			resp, err := NewLogging(lg).HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			assert.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantCode == codes.OK {
				assert.Equal(t, "ok", resp)
			}
			assert.Contains(t, buf.String(), "method=/svc/Method")
			assert.Contains(t, buf.String(), tt.wantLogged)
		})
	}
}

func TestLogging_HandleGRPCStream(t *testing.T) {
	t.Parallel()

	lg, buf := testutil.MakeBufferLogger()
	info := &grpc.StreamServerInfo{FullMethod: "/svc/Stream"}
	err := NewLogging(lg).HandleGRPCStream(nil, nil, info, func(any, grpc.ServerStream) error {
		return status.Error(codes.Unauthenticated, "nope")
	})

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Contains(t, buf.String(), "method=/svc/Stream")
	assert.Contains(t, buf.String(), "status=Unauthenticated")
}
