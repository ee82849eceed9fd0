package errors

import (
	"fmt"
)

// Common error creators for frequent use cases

// NewConfigError creates a configuration error
func NewConfigError(key, message string) *AppError {
	return New(ErrCodeInvalidConfig, message).
		WithContext("config_key", key).
		WithUserMessage("Configuration error")
}

// NewDecryptError creates a webhook payload decryption error
func NewDecryptError(err error) *AppError {
	return Wrap(err, ErrCodeDecryptFailed, "failed to decrypt webhook payload").
		WithUserMessage("Failed to decrypt event")
}

// NewDatabaseError creates a database error with operation context
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithContext("operation", operation).
		WithUserMessage("Database operation failed")
}

// NewAPIError creates an API error for external service calls
func NewAPIError(service, endpoint string, statusCode int, err error) *AppError {
	var code ErrorCode

	switch service {
	case "lark":
		code = ErrCodeLarkAPI
	case "agent":
		code = ErrCodeAgentAPI
	default:
		code = ErrCodeInternalError
	}

	retryable := statusCode >= 500 || statusCode == 429 || statusCode == 408

	appErr := Wrap(err, code, fmt.Sprintf("%s API call failed", service)).
		WithContext("service", service).
		WithContext("endpoint", endpoint).
		WithContext("status_code", statusCode)

	if retryable {
		appErr.Retryable = true
	}

	return appErr
}

// NewTimeoutError creates a timeout error with context
func NewTimeoutError(operation string, duration string) *AppError {
	return New(ErrCodeTimeout, fmt.Sprintf("%s timed out after %s", operation, duration)).
		WithContext("operation", operation).
		WithContext("timeout", duration).
		WithUserMessage("Operation timed out, please try again")
}
