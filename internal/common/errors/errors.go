// Package errors provides standardized error handling for the HTTP API and BPMN workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeMatchingError  ErrorCode = "MATCHING_ERROR"

	ErrCodeFactoryNotFound ErrorCode = "FACTORY_NOT_FOUND"

	ErrCodeConsultationNotFound         ErrorCode = "CONSULTATION_NOT_FOUND"
	ErrCodeConsultationValidationFailed ErrorCode = "CONSULTATION_VALIDATION_FAILED"

	ErrCodeRepositoryError ErrorCode = "REPOSITORY_ERROR"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeCRMSyncFailed          ErrorCode = "CRM_SYNC_FAILED"

	ErrCodeTextGenerationFailed  ErrorCode = "TEXT_GENERATION_FAILED"
	ErrCodeTextGenerationTimeout ErrorCode = "TEXT_GENERATION_TIMEOUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error metadata and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// As extracts a *StandardError from an error chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError reports a malformed or incomplete match request.
func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid factory matching request", details, false)
}

// NewMatchingError reports an internal fault while producing recommendations.
func NewMatchingError(err error) *StandardError {
	return newError(ErrCodeMatchingError, "Factory matching failed", errDetails(err), false)
}

func NewFactoryNotFoundError(factoryID string) *StandardError {
	return newError(ErrCodeFactoryNotFound, "Factory not found", fmt.Sprintf("factory %s does not exist", factoryID), false).
		WithMetadata("factoryId", factoryID)
}

func NewConsultationNotFoundError(consultationID string) *StandardError {
	return newError(ErrCodeConsultationNotFound, "Consultation not found", fmt.Sprintf("consultation %s does not exist", consultationID), false).
		WithMetadata("consultationId", consultationID)
}

func NewConsultationValidationError(details string) *StandardError {
	return newError(ErrCodeConsultationValidationFailed, "Consultation request is invalid", details, false)
}

// NewRepositoryError wraps a storage failure; these are retryable.
func NewRepositoryError(operation string, err error) *StandardError {
	return newError(ErrCodeRepositoryError, fmt.Sprintf("Repository operation %s failed", operation), errDetails(err), true).
		WithMetadata("operation", operation)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, fmt.Sprintf("Failed to send %s notification", channel), errDetails(err), true).
		WithMetadata("channel", channel)
}

func NewCRMSyncFailedError(err error) *StandardError {
	return newError(ErrCodeCRMSyncFailed, "Failed to sync lead to CRM", errDetails(err), true)
}

func NewTextGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeTextGenerationFailed, "Text generation failed", errDetails(err), true)
}

func NewTextGenerationTimeoutError() *StandardError {
	return newError(ErrCodeTextGenerationTimeout, "Text generation timed out", "", true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errDetails(err), false)
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 4. Error Conversion
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidRequest:               "INVALID_REQUEST",
	ErrCodeMatchingError:                "MATCHING_ERROR",
	ErrCodeFactoryNotFound:              "FACTORY_NOT_FOUND",
	ErrCodeConsultationNotFound:         "CONSULTATION_NOT_FOUND",
	ErrCodeConsultationValidationFailed: "CONSULTATION_VALIDATION_FAILED",
	ErrCodeRepositoryError:              "REPOSITORY_ERROR",
	ErrCodeNotificationSendFailed:       "NOTIFICATION_SEND_FAILED",
	ErrCodeCRMSyncFailed:                "CRM_SYNC_FAILED",
	ErrCodeTextGenerationFailed:         "TEXT_GENERATION_FAILED",
	ErrCodeTextGenerationTimeout:        "TEXT_GENERATION_TIMEOUT",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRepositoryError,
		ErrCodeNotificationSendFailed,
		ErrCodeCRMSyncFailed,
		ErrCodeTextGenerationFailed:
		return 3
	case ErrCodeTextGenerationTimeout:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// HTTPStatus maps an error code to the response status used by the API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeConsultationValidationFailed:
		return http.StatusBadRequest
	case ErrCodeFactoryNotFound, ErrCodeConsultationNotFound:
		return http.StatusNotFound
	case ErrCodeRepositoryError, ErrCodeNotificationSendFailed, ErrCodeCRMSyncFailed:
		return http.StatusServiceUnavailable
	case ErrCodeTextGenerationTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "REPOSITORY"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "CRM"):
		return "INTEGRATION"
	case strings.Contains(codeStr, "TEXT_GENERATION"):
		return "AI"
	case strings.Contains(codeStr, "MATCHING"):
		return "MATCHING"
	default:
		return "OTHER"
	}
}
