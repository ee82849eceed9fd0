package tracing

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRequestID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "request IDs must not repeat")
		seen[id] = true
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))
}

func TestStartTimeAndDuration(t *testing.T) {
	ctx := context.Background()
	assert.Zero(t, Duration(ctx))

	ctx = WithStartTime(ctx, time.Now().Add(-50*time.Millisecond))
	assert.GreaterOrEqual(t, Duration(ctx), 50*time.Millisecond)
}

func TestGetRequestInfo(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-456")
	info := GetRequestInfo(ctx)

	assert.Equal(t, "req-456", info.RequestID)
	// No span on a bare context, otel returns the zero trace ID.
	assert.Equal(t, "00000000000000000000000000000000", info.TraceID)
}

func TestManagerDisabled(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	m := NewManager(models.TracingConfig{Enabled: false}, logger)
	assert.NoError(t, m.Initialize(context.Background()))
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestManagerStdoutExporter(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.UseStdout = true
	cfg.SampleRate = 1.0

	m := NewManager(cfg, logger)
	assert.NoError(t, m.Initialize(context.Background()))

	ctx, span := StartSpan(context.Background(), "test_operation")
	assert.NotEmpty(t, GetOtelTraceID(ctx))
	assert.NotEmpty(t, GetOtelSpanID(ctx))
	span.End()

	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()
	assert.Equal(t, "larkagent", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.UseStdout)
	assert.Equal(t, 0.1, cfg.SampleRate)
}
