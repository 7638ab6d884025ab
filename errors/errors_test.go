package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorIncludesCodeAndCause(t *testing.T) {
	err := ErrStoreFailed("write", fmt.Errorf("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
	assert.Equal(t, "[INTEGRATION_STORE_FAILED] Result store operation failed: write: connection refused", err.Error())
}

func TestAppError_UnwrapReachesRaw(t *testing.T) {
	sentinel := stdErrors.New("boom")
	wrapped := fmt.Errorf("handler: %w", ErrAITranscriptionFailed(sentinel))

	assert.True(t, stdErrors.Is(wrapped, sentinel))

	var appErr AppError
	assert.True(t, stdErrors.As(wrapped, &appErr))
	assert.Equal(t, ErrorCode_AI_TRANSCRIPTION_FAILED, appErr.Code)
}

func TestErrFileTooLarge_ReportsLimitInMegabytes(t *testing.T) {
	err := ErrFileTooLarge(30*1024*1024, 25*1024*1024)

	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Equal(t, "File too large. Maximum size is 25MB", err.Message)
	assert.Equal(t, "31457280", err.Details["size"])
}

func TestErrorCode_StringFallsBackForUnknown(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", ErrorCode_NOT_FOUND.String())
	assert.Equal(t, "ERROR_CODE_999", ErrorCode(999).String())
}
