package alarm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// RequestIDHeader carries the request id in incoming metadata.
const RequestIDHeader = "x-request-id"

// LoggingInterceptor tags every call with a request id, either the caller's
// or a fresh uuid, and logs its outcome.
func LoggingInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	requestID := requestIDFrom(ctx)

	ctx = logger.WithFields(ctx, map[string]any{
		"request_id": requestID,
		"method":     info.FullMethod,
	})

	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

	started := time.Now()
	resp, err := handler(ctx, req)

	logger.DebugKV(ctx, "Handled gRPC call",
		"code", status.Code(err).String(),
		"duration", time.Since(started),
	)

	return resp, err
}

func requestIDFrom(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(RequestIDHeader); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}

	return uuid.NewString()
}
