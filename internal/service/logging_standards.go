package service

// Logging standards for the Lark agent bridge.
//
// This file defines the field names used across all structured logging
// calls so that log aggregation can rely on consistent keys.

const (
	// Core identifiers
	LogFieldSessionKey = "session_key"
	LogFieldMessageID  = "message_id"
	LogFieldChatID     = "chat_id"
	LogFieldUserID     = "user_id"

	// Service and operation fields
	LogFieldService   = "service"
	LogFieldOperation = "operation"
	LogFieldComponent = "component"
	LogFieldMethod    = "method"

	// Event fields
	LogFieldEventType   = "event_type"
	LogFieldMessageType = "message_type"
	LogFieldDirection   = "direction" // "incoming" or "outgoing"

	// Performance
	LogFieldDuration = "duration_ms"
	LogFieldCount    = "count"
	LogFieldSize     = "size_bytes"

	// Network and external services
	LogFieldURL        = "url"
	LogFieldEndpoint   = "endpoint"
	LogFieldStatusCode = "status_code"
	LogFieldRemoteIP   = "remote_ip"
	LogFieldUserAgent  = "user_agent"

	// Tracing
	LogFieldRequestID = "request_id"
	LogFieldTraceID   = "trace_id"

	// Error and debugging
	LogFieldErrorCode  = "error_code"
	LogFieldRetryCount = "retry_count"
	LogFieldAttempt    = "attempt"
)

// Level usage:
//
// DEBUG: detailed flow information, only in verbose mode. Raw payloads
// must be masked before logging.
// INFO: startup/shutdown, configuration loaded, successful operations.
// WARN: retryable errors, fallback behavior, duplicate deliveries.
// ERROR: failed operations, external service errors.
// FATAL: missing startup configuration, unrecoverable database errors.
