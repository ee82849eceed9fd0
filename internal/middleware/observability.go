package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/httputil"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/metrics"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/service"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Observability wraps a handler with request logging, tracing, and
// request metrics. Every route on the server passes through it.
func Observability(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.StartSpan(r.Context(), "http_request")
			defer span.End()

			requestID := tracing.GenerateRequestID()
			ctx = tracing.WithRequestID(ctx, requestID)
			ctx = tracing.WithStartTime(ctx, time.Now())
			r = r.WithContext(ctx)

			tracing.AddSpanAttributes(ctx,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
				attribute.String("http.host", r.Host),
				attribute.String("user_agent.original", r.Header.Get("User-Agent")),
				attribute.String("client.address", httputil.GetClientIP(r)),
			)

			info := tracing.GetRequestInfo(ctx)

			wrapper := &responseWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			logger.WithFields(logrus.Fields{
				service.LogFieldRequestID: info.RequestID,
				service.LogFieldTraceID:   info.TraceID,
				service.LogFieldMethod:    r.Method,
				service.LogFieldURL:       r.URL.Path,
				service.LogFieldRemoteIP:  httputil.GetClientIP(r),
				service.LogFieldUserAgent: r.Header.Get("User-Agent"),
			}).Debug("HTTP request started")

			metrics.IncrementCounter("http_requests_total", map[string]string{
				"method":   r.Method,
				"endpoint": r.URL.Path,
			})
			metrics.IncrementCounter("http_requests_active", nil)
			defer metrics.AddToCounter("http_requests_active", -1, nil)

			next.ServeHTTP(wrapper, r)

			duration := tracing.Duration(ctx)

			tracing.AddSpanAttributes(ctx,
				attribute.Int("http.response.status_code", wrapper.statusCode),
				attribute.Int64("http.response.size", wrapper.responseSize),
				attribute.Int64("http.request.duration_ms", duration.Milliseconds()),
			)
			if wrapper.statusCode >= 400 {
				tracing.SetSpanStatus(ctx, codes.Error, fmt.Sprintf("HTTP %d", wrapper.statusCode))
			} else {
				tracing.SetSpanStatus(ctx, codes.Ok, "")
			}

			metrics.RecordTimer("http_request_duration", duration, map[string]string{
				"method":      r.Method,
				"endpoint":    r.URL.Path,
				"status_code": strconv.Itoa(wrapper.statusCode),
			})
			metrics.IncrementCounter("http_responses_total", map[string]string{
				"method":      r.Method,
				"endpoint":    r.URL.Path,
				"status_code": strconv.Itoa(wrapper.statusCode),
			})

			logLevel := logrus.InfoLevel
			if wrapper.statusCode >= 500 {
				logLevel = logrus.ErrorLevel
			} else if wrapper.statusCode >= 400 {
				logLevel = logrus.WarnLevel
			}

			logger.WithFields(logrus.Fields{
				service.LogFieldRequestID:  info.RequestID,
				service.LogFieldTraceID:    info.TraceID,
				service.LogFieldMethod:     r.Method,
				service.LogFieldURL:        r.URL.Path,
				service.LogFieldStatusCode: wrapper.statusCode,
				service.LogFieldDuration:   duration.Milliseconds(),
				service.LogFieldSize:       wrapper.responseSize,
			}).Log(logLevel, "HTTP request completed")
		})
	}
}

// WebhookObservability adds webhook-specific spans and counters. It is
// layered inside Observability on the webhook routes only, so request
// IDs are already on the context.
func WebhookObservability(logger *logrus.Logger, webhookType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx, span := tracing.StartSpan(r.Context(), "webhook_request")
			defer span.End()
			r = r.WithContext(ctx)

			tracing.AddSpanAttributes(ctx,
				attribute.String("webhook.type", webhookType),
				attribute.String("http.method", r.Method),
				attribute.Int64("http.request.content_length", r.ContentLength),
			)

			metrics.IncrementCounter("webhook_requests_total", map[string]string{
				"type": webhookType,
			})

			wrapper := &responseWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapper, r)

			processingTime := time.Since(start)

			tracing.AddSpanAttributes(ctx,
				attribute.Int("http.response.status_code", wrapper.statusCode),
				attribute.Int64("webhook.processing_duration_ms", processingTime.Milliseconds()),
			)

			metrics.RecordTimer("webhook_processing_duration", processingTime, map[string]string{
				"type":        webhookType,
				"status_code": strconv.Itoa(wrapper.statusCode),
			})

			if wrapper.statusCode >= 400 {
				tracing.SetSpanStatus(ctx, codes.Error, fmt.Sprintf("webhook failed with HTTP %d", wrapper.statusCode))
				metrics.IncrementCounter("webhook_errors_total", map[string]string{
					"type":        webhookType,
					"status_code": strconv.Itoa(wrapper.statusCode),
				})
				logger.WithFields(logrus.Fields{
					service.LogFieldRequestID:  tracing.GetRequestID(ctx),
					service.LogFieldComponent:  webhookType,
					service.LogFieldStatusCode: wrapper.statusCode,
					service.LogFieldDuration:   processingTime.Milliseconds(),
				}).Error("Webhook request failed")
				return
			}

			tracing.SetSpanStatus(ctx, codes.Ok, "")
			metrics.IncrementCounter("webhook_success_total", map[string]string{
				"type": webhookType,
			})
		})
	}
}

// responseWrapper captures status code and size for logging.
type responseWrapper struct {
	http.ResponseWriter
	statusCode   int
	responseSize int64
}

func (rw *responseWrapper) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWrapper) Write(data []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(data)
	rw.responseSize += int64(n)
	return n, err
}
