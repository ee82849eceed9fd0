package tracing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	startTimeKey contextKey = "start_time"
)

// RequestInfo carries per-request correlation data for logging.
type RequestInfo struct {
	RequestID string
	TraceID   string
}

// GenerateRequestID returns a unique identifier for one webhook delivery.
func GenerateRequestID() string {
	return uuid.New().String()
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func WithStartTime(ctx context.Context, startTime time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey, startTime)
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func GetStartTime(ctx context.Context) time.Time {
	if ts, ok := ctx.Value(startTimeKey).(time.Time); ok {
		return ts
	}
	return time.Time{}
}

// GetRequestInfo collects the correlation fields from the context.
func GetRequestInfo(ctx context.Context) *RequestInfo {
	return &RequestInfo{
		RequestID: GetRequestID(ctx),
		TraceID:   GetOtelTraceID(ctx),
	}
}

// Duration returns the elapsed time since the request started.
func Duration(ctx context.Context) time.Duration {
	start := GetStartTime(ctx)
	if start.IsZero() {
		return 0
	}
	return time.Since(start)
}
