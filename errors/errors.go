package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the error type carried from use cases to HTTP responses
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the raw cause to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrMethodNotAllowed(method string) AppError {
	return AppError{
		HTTPCode: http.StatusMethodNotAllowed,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  fmt.Sprintf("Method %s not allowed", method),
	}
}

func ErrServiceUnavailable(message string) AppError {
	return AppError{
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_UNAVAILABLE,
		Message:  message,
	}
}

// Upload Errors
func ErrUnsupportedMediaType(contentType string, allowed []string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_UPLOAD_INVALID_TYPE,
		Message:  fmt.Sprintf("Invalid file type %q. Allowed: %v", contentType, allowed),
	}.WithDetail("content_type", contentType)
}

func ErrFileTooLarge(size, limit int64) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_UPLOAD_TOO_LARGE,
		Message:  fmt.Sprintf("File too large. Maximum size is %dMB", limit/(1024*1024)),
	}.WithDetail("size", fmt.Sprintf("%d", size))
}

func ErrUploadFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_UPLOAD_FAILED,
		Message:  "Failed to upload file",
	}
}

func ErrInvalidUploadToken(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UPLOAD_INVALID_TOKEN,
		Message:  "Invalid or expired upload token",
	}
}

// AI Errors
func ErrAITranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_AI_TRANSCRIPTION_FAILED,
		Message:  "Failed to transcribe audio",
	}
}

func ErrAIQueueFull() AppError {
	return AppError{
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_AI_QUEUE_FULL,
		Message:  "Analysis queue is full, try again shortly",
	}
}

// Integration Errors
func ErrStoreFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_STORE_FAILED,
		Message:  fmt.Sprintf("Result store operation failed: %s", operation),
	}
}

func ErrFetchFailed(resource string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_FETCH_FAILED,
		Message:  fmt.Sprintf("Failed to fetch %s", resource),
	}
}

func ErrExportFailed(format string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_EXPORT_FAILED,
		Message:  "Failed to export results",
	}.WithDetail("format", format)
}
