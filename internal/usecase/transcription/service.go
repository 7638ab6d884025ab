package transcription

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/infrastructure/external/remote"
	usecaseErrors "github.com/johnquangdev/oncovoice/internal/usecase/errors"
	"github.com/johnquangdev/oncovoice/pkg/ai"
)

// AudioSource downloads stored recordings
type AudioSource interface {
	Fetch(ctx context.Context, rawURL string, limit int64) (*remote.Resource, error)
}

// Observer records provider call outcomes
type Observer interface {
	ObserveProvider(provider, operation string, d time.Duration, err error)
}

// Request identifies a stored recording and optional format hints
type Request struct {
	AudioURL    string
	ContentType string
	FileName    string
}

// Service fetches stored audio and forwards it to the configured transcriber
type Service struct {
	audio       AudioSource
	transcriber ai.Transcriber
	language    string
	maxBytes    int64
	observer    Observer
	logger      *zap.Logger
}

// NewService creates a new transcription service
func NewService(audio AudioSource, transcriber ai.Transcriber, language string, maxBytes int64, observer Observer, logger *zap.Logger) *Service {
	if language == "" {
		language = ai.DefaultLanguage
	}
	return &Service{
		audio:       audio,
		transcriber: transcriber,
		language:    language,
		maxBytes:    maxBytes,
		observer:    observer,
		logger:      logger,
	}
}

// Transcribe returns the plain text of the recording at req.AudioURL
func (s *Service) Transcribe(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.AudioURL) == "" {
		return "", fmt.Errorf("%w: audioUrl is required", usecaseErrors.ErrInvalidInput)
	}

	res, err := s.audio.Fetch(ctx, req.AudioURL, s.maxBytes)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", usecaseErrors.ErrAudioNotFound, req.AudioURL)
		}
		if s.logger != nil {
			s.logger.Error("❌ Failed to fetch audio",
				zap.String("audio_url", req.AudioURL),
				zap.Error(err),
			)
		}
		return "", fmt.Errorf("%w: %v", usecaseErrors.ErrAudioFetchFailed, err)
	}

	fileName, contentType := FileHints(req, res.ContentType)

	if s.logger != nil {
		s.logger.Info("🎙️ Starting transcription",
			zap.String("provider", s.transcriber.Name()),
			zap.String("file_name", fileName),
			zap.String("content_type", contentType),
			zap.Int("size", len(res.Data)),
			zap.String("language", s.language),
		)
	}

	start := time.Now()
	text, err := s.transcriber.Transcribe(ctx, res.Data, ai.TranscriptionOptions{
		FileName:    fileName,
		ContentType: contentType,
		Language:    s.language,
	})
	if s.observer != nil {
		s.observer.ObserveProvider(s.transcriber.Name(), ai.OperationTranscription, time.Since(start), err)
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Transcription failed",
				zap.String("provider", s.transcriber.Name()),
				zap.String("audio_url", req.AudioURL),
				zap.Error(err),
			)
		}
		return "", fmt.Errorf("%w: %w", usecaseErrors.ErrTranscriptionFailed, err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Transcription completed",
			zap.Int("transcript_length", len(text)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return text, nil
}

// FileHints derives the file name and MIME type reported to the provider.
// The extension comes from the file name, else the URL path, else mp3.
func FileHints(req Request, fetchedType string) (string, string) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(req.FileName)), ".")
	if ext == "" {
		if u, err := url.Parse(req.AudioURL); err == nil {
			ext = strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
		}
	}
	if ext == "" {
		ext = "mp3"
	}

	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" || ext == "m4a" {
		contentType = ai.AudioContentType(ext)
	}
	if contentType == "application/octet-stream" && fetchedType != "" {
		contentType = fetchedType
	}

	base := "audio"
	if req.FileName != "" {
		base = strings.TrimSuffix(path.Base(req.FileName), path.Ext(req.FileName))
	}
	return base + "." + ext, contentType
}
