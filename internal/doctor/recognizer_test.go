package doctor

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/RCorpy/presupuestatorvoice/internal/config"
)

func startGRPC(t *testing.T, withHealth bool) (string, *health.Server) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	var hs *health.Server
	if withHealth {
		hs = health.NewServer()
		healthpb.RegisterHealthServer(srv, hs)
	}
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return lis.Addr().String(), hs
}

func TestCheckRecognizerSkippedWhenUnset(t *testing.T) {
	check := checkRecognizer(context.Background(), config.RecognizerConfig{})
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "skipped")
}

func TestCheckRecognizerServing(t *testing.T) {
	addr, _ := startGRPC(t, true)

	check := checkRecognizer(context.Background(), config.RecognizerConfig{GRPC: addr})
	require.True(t, check.Pass, check.Message)
	require.Contains(t, check.Message, "serving")
}

func TestCheckRecognizerNotServing(t *testing.T) {
	addr, hs := startGRPC(t, true)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	check := checkRecognizer(context.Background(), config.RecognizerConfig{GRPC: addr})
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "NOT_SERVING")
}

func TestCheckRecognizerWithoutHealthService(t *testing.T) {
	addr, _ := startGRPC(t, false)

	check := checkRecognizer(context.Background(), config.RecognizerConfig{GRPC: addr})
	require.True(t, check.Pass, check.Message)
	require.Contains(t, check.Message, "no health service")
}

func TestCheckRecognizerUnreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	check := checkRecognizer(ctx, config.RecognizerConfig{GRPC: addr})
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "not ready")
}
