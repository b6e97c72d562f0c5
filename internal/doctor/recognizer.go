package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/RCorpy/presupuestatorvoice/internal/config"
)

const recognizerTimeout = 2 * time.Second

// checkRecognizer dials the recognizer endpoint, waits for the channel to
// become ready and asks the standard health service. Servers without the
// health service pass once the channel is ready.
func checkRecognizer(ctx context.Context, cfg config.RecognizerConfig) Check {
	const name = "recognizer.grpc"

	target := strings.TrimSpace(cfg.GRPC)
	if target == "" {
		return pass(name, "not configured, skipped")
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fail(name, "dial %s: %v", target, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, recognizerTimeout)
	defer cancel()

	conn.Connect()
	if err := waitForReady(ctx, conn); err != nil {
		return fail(name, "%s not ready: %v", target, err)
	}

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	switch {
	case status.Code(err) == codes.Unimplemented:
		return pass(name, "ready at %s (no health service)", target)
	case err != nil:
		return fail(name, "health check %s: %v", target, err)
	case resp.GetStatus() != healthpb.HealthCheckResponse_SERVING:
		return fail(name, "%s reports %s", target, resp.GetStatus())
	}
	return pass(name, "serving at %s", target)
}

// waitForReady blocks until conn is Ready, shuts down or ctx ends.
func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("grpc connection entered shutdown state")
		}
		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return fmt.Errorf("still %s: %w", state, ctx.Err())
			}
			return fmt.Errorf("grpc readiness wait ended in state %s", state)
		}
	}
}
