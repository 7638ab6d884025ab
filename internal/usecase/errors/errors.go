package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal server error")
)

// Catalog errors
var (
	ErrUnknownTeam       = errors.New("unknown team")
	ErrDocumentNotMapped = errors.New("no reference document mapped for team")
)

// Upload errors
var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrObjectMissing   = errors.New("uploaded object not found")
	ErrInvalidToken    = errors.New("invalid upload token")
	ErrStorage         = errors.New("object storage failure")
)

// Transcription errors
var (
	ErrAudioNotFound       = errors.New("audio not found")
	ErrAudioFetchFailed    = errors.New("failed to fetch audio")
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// Analysis errors
var (
	ErrQueueFull    = errors.New("analysis queue is full")
	ErrPoolStopped  = errors.New("analysis pool is not accepting jobs")
	ErrShuttingDown = errors.New("analysis aborted: service shutting down")
	ErrStoreFailure = errors.New("result store failure")
)

// TypeError reports a rejected content type together with the allow-list
type TypeError struct {
	ContentType string
	Allowed     []string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnsupportedType, e.ContentType)
}

func (e *TypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// SizeError reports an upload above the configured ceiling
type SizeError struct {
	Size  int64
	Limit int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds %d", ErrFileTooLarge, e.Size, e.Limit)
}

func (e *SizeError) Is(target error) bool {
	return target == ErrFileTooLarge
}
