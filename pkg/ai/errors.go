package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors for AI providers
var (
	ErrEmptyAudio      = errors.New("audio data is empty")
	ErrEmptyText       = errors.New("text is empty")
	ErrEmptyResponse   = errors.New("provider returned an empty response")
	ErrRateLimited     = errors.New("rate limited by provider")
	ErrInvalidAPIKey   = errors.New("invalid API key")
	ErrMalformedOutput = errors.New("provider output does not match the expected structure")
)

// Operations reported in ProviderError
const (
	OperationTranscription = "transcription"
	OperationCompletion    = "completion"
	OperationSynthesis     = "synthesis"
)

// ProviderError describes a failed call to a hosted AI provider
type ProviderError struct {
	Provider   string
	Operation  string
	StatusCode int
	Code       string
	Message    string
	Cause      error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s error [%s]: %s", e.Provider, e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s error: %s", e.Provider, e.Operation, e.Message)
}

// Unwrap returns the underlying error
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is a provider error worth retrying
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// requestFailed wraps a transport-level failure
func requestFailed(provider, operation string, err error) *ProviderError {
	return &ProviderError{
		Provider:  provider,
		Operation: operation,
		Message:   "request failed",
		Cause:     err,
		Retryable: true,
	}
}

// statusError builds a ProviderError from an OpenAI-style error body
func statusError(provider, operation string, statusCode int, body []byte) *ProviderError {
	pe := &ProviderError{
		Provider:   provider,
		Operation:  operation,
		StatusCode: statusCode,
		Code:       fmt.Sprintf("%d", statusCode),
		Message:    string(body),
	}

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := jsonUnmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		pe.Message = errResp.Error.Message
		if errResp.Error.Code != "" {
			pe.Code = errResp.Error.Code
		}
	}

	return classifyStatus(pe)
}

// classifyStatus sets the retry flag and sentinel cause from pe.StatusCode
func classifyStatus(pe *ProviderError) *ProviderError {
	pe.Retryable = pe.StatusCode == http.StatusTooManyRequests || pe.StatusCode >= http.StatusInternalServerError
	switch pe.StatusCode {
	case http.StatusTooManyRequests:
		pe.Cause = ErrRateLimited
	case http.StatusUnauthorized:
		pe.Cause = ErrInvalidAPIKey
	}
	return pe
}
