package errors

import "fmt"

// ErrorCode is the application-level error code returned in the response envelope
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1
	ErrorCode_INVALID_ARGUMENT ErrorCode = 2
	ErrorCode_NOT_FOUND        ErrorCode = 3
	ErrorCode_UNAVAILABLE      ErrorCode = 5

	// Upload
	ErrorCode_UPLOAD_INVALID_TYPE  ErrorCode = 100
	ErrorCode_UPLOAD_TOO_LARGE     ErrorCode = 101
	ErrorCode_UPLOAD_FAILED        ErrorCode = 102
	ErrorCode_UPLOAD_INVALID_TOKEN ErrorCode = 103

	// AI providers
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 200
	ErrorCode_AI_QUEUE_FULL           ErrorCode = 203

	// Integrations
	ErrorCode_INTEGRATION_STORE_FAILED ErrorCode = 301
	ErrorCode_INTEGRATION_FETCH_FAILED ErrorCode = 302
	ErrorCode_EXPORT_FAILED            ErrorCode = 303
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                  "HTTP_OK",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_UNAVAILABLE:              "UNAVAILABLE",
	ErrorCode_UPLOAD_INVALID_TYPE:      "UPLOAD_INVALID_TYPE",
	ErrorCode_UPLOAD_TOO_LARGE:         "UPLOAD_TOO_LARGE",
	ErrorCode_UPLOAD_FAILED:            "UPLOAD_FAILED",
	ErrorCode_UPLOAD_INVALID_TOKEN:     "UPLOAD_INVALID_TOKEN",
	ErrorCode_AI_TRANSCRIPTION_FAILED:  "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_QUEUE_FULL:            "AI_QUEUE_FULL",
	ErrorCode_INTEGRATION_STORE_FAILED: "INTEGRATION_STORE_FAILED",
	ErrorCode_INTEGRATION_FETCH_FAILED: "INTEGRATION_FETCH_FAILED",
	ErrorCode_EXPORT_FAILED:            "EXPORT_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ERROR_CODE_%d", int32(c))
}
