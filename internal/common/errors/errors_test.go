package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode_WrappedError(t *testing.T) {
	base := NewFactoryNotFoundError("factory-999")
	wrapped := fmt.Errorf("lookup: %w", base)

	assert.True(t, HasCode(wrapped, ErrCodeFactoryNotFound))
	assert.False(t, HasCode(wrapped, ErrCodeMatchingError))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeFactoryNotFound))
	assert.Equal(t, "factory-999", base.Metadata["factoryId"])
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeConsultationValidationFailed, http.StatusBadRequest},
		{ErrCodeFactoryNotFound, http.StatusNotFound},
		{ErrCodeConsultationNotFound, http.StatusNotFound},
		{ErrCodeRepositoryError, http.StatusServiceUnavailable},
		{ErrCodeTextGenerationTimeout, http.StatusGatewayTimeout},
		{ErrCodeMatchingError, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable repository failure", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewRepositoryError("put", fmt.Errorf("throttled")))
		assert.Equal(t, "REPOSITORY_ERROR", bpmn.Code)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, 3, bpmn.Retries)
		assert.Equal(t, "REPOSITORY_ERROR", bpmn.ToErrorVariables()["originalErrorCode"])
	})

	t.Run("validation is never retried", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewInvalidRequestError("recipeCategory is required"))
		assert.Equal(t, 0, bpmn.Retries)
		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "INVALID_REQUEST", vars["errorCode"])
		assert.Equal(t, "recipeCategory is required", vars["errorDetails"])
	})

	t.Run("unknown code passes through", func(t *testing.T) {
		bpmn := ConvertToBPMNError(&StandardError{Code: "CUSTOM", Message: "x"})
		assert.Equal(t, "CUSTOM", bpmn.Code)
	})
}

func TestNormalize(t *testing.T) {
	stdErr := Normalize(fmt.Errorf("boom"))
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeInternal, stdErr.Code)
	assert.Equal(t, "boom", stdErr.Details)

	original := NewMatchingError(fmt.Errorf("registry unavailable"))
	assert.Same(t, original, Normalize(original))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidRequest))
	assert.Equal(t, "NOT_FOUND", GetErrorCategory(ErrCodeConsultationNotFound))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeRepositoryError))
	assert.Equal(t, "INTEGRATION", GetErrorCategory(ErrCodeCRMSyncFailed))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeTextGenerationTimeout))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeMatchingError))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeFactoryNotFound))
}
