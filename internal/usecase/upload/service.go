package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/oncovoice/internal/usecase/errors"
	"github.com/johnquangdev/oncovoice/pkg/ai"
	"github.com/johnquangdev/oncovoice/pkg/config"
	"github.com/johnquangdev/oncovoice/pkg/jwt"
)

// TokenManager signs and verifies client upload tokens
type TokenManager interface {
	GenerateUploadToken(teamID int, pathname string, allowed []string, maxSize int64) (string, time.Time, error)
	ValidateUploadToken(token string) (*jwt.UploadClaims, error)
}

// Observer records upload outcomes
type Observer interface {
	ObserveUpload(kind string, err error)
}

// AudioUpload is a browser-submitted recording
type AudioUpload struct {
	TeamID      int
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadedAudio describes the stored recording
type UploadedAudio struct {
	AudioURL         string
	AudioContentType string
	AudioFileName    string
}

// TokenRequest asks for a direct-to-storage upload slot
type TokenRequest struct {
	Filename string
	TeamID   int
}

// UploadToken authorizes one direct-to-storage upload
type UploadToken struct {
	Filename    string
	UploadURL   string
	PublicURL   string
	ClientToken string
	ExpiresAt   time.Time
	Timestamp   int64
}

// CompletedUpload describes a verified direct upload
type CompletedUpload struct {
	URL         string
	Pathname    string
	ContentType string
	Size        int64
}

// Service handles audio intake and direct upload tokens
type Service struct {
	catalog  repositories.CatalogProvider
	storage  repositories.ObjectStorage
	tokens   TokenManager
	cfg      config.UploadConfig
	observer Observer
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new upload service
func NewService(
	catalog repositories.CatalogProvider,
	storage repositories.ObjectStorage,
	tokens TokenManager,
	cfg config.UploadConfig,
	observer Observer,
	logger *zap.Logger,
) *Service {
	return &Service{
		catalog:  catalog,
		storage:  storage,
		tokens:   tokens,
		cfg:      cfg,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// UploadAudio validates a recording and stores it as team-<id>-audio-<unixms>.<ext>
func (s *Service) UploadAudio(ctx context.Context, in AudioUpload) (out *UploadedAudio, err error) {
	defer func() { s.observe("audio", err) }()

	if in.TeamID <= 0 || in.Reader == nil {
		return nil, fmt.Errorf("%w: missing audio file or team id", usecaseErrors.ErrInvalidInput)
	}
	if _, ok := s.catalog.Current().Team(in.TeamID); !ok {
		return nil, fmt.Errorf("%w: unknown team %d", usecaseErrors.ErrInvalidInput, in.TeamID)
	}

	contentType := normalizeType(in.ContentType)
	if !s.audioAllowed(contentType, in.FileName) {
		return nil, &usecaseErrors.TypeError{ContentType: in.ContentType, Allowed: s.cfg.AllowedAudioTypes}
	}
	if limit := s.cfg.MaxAudioBytes(); in.Size > limit {
		return nil, &usecaseErrors.SizeError{Size: in.Size, Limit: limit}
	}

	ext := audioExtension(in.FileName, contentType)
	if !isAudioType(contentType) {
		contentType = ai.AudioContentType(ext)
	}

	name := fmt.Sprintf("team-%d-audio-%d.%s", in.TeamID, s.now().UnixMilli(), ext)
	obj, err := s.storage.Put(ctx, name, in.Reader, in.Size, contentType)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Audio upload failed",
				zap.Int("team_id", in.TeamID),
				zap.String("object", name),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrStorage, err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Audio uploaded",
			zap.Int("team_id", in.TeamID),
			zap.String("object", name),
			zap.Int64("size", obj.Size),
		)
	}

	return &UploadedAudio{
		AudioURL:         obj.URL,
		AudioContentType: contentType,
		AudioFileName:    name,
	}, nil
}

// IssueToken reserves a unique object name and signs a client token for it
func (s *Service) IssueToken(ctx context.Context, req TokenRequest) (out *UploadToken, err error) {
	defer func() { s.observe("token", err) }()

	if strings.TrimSpace(req.Filename) == "" || req.TeamID <= 0 {
		return nil, fmt.Errorf("%w: missing filename or teamId", usecaseErrors.ErrInvalidInput)
	}
	if _, ok := s.catalog.Current().Team(req.TeamID); !ok {
		return nil, fmt.Errorf("%w: unknown team %d", usecaseErrors.ErrInvalidInput, req.TeamID)
	}

	base := path.Base(req.Filename)
	ext := strings.TrimPrefix(path.Ext(base), ".")
	if ext == "" {
		return nil, fmt.Errorf("%w: filename must have an extension", usecaseErrors.ErrInvalidInput)
	}
	stem := slug(strings.TrimSuffix(base, "."+ext))

	now := s.now()
	ts := now.UnixMilli()
	pathname := fmt.Sprintf("team-%d-%s-%d.%s", req.TeamID, stem, ts, strings.ToLower(ext))

	token, expiresAt, err := s.tokens.GenerateUploadToken(req.TeamID, pathname, s.allowedDirectTypes(), s.maxDirectBytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInternalError, err)
	}

	uploadURL, err := s.storage.PresignPut(ctx, pathname, expiresAt.Sub(now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrStorage, err)
	}

	if s.logger != nil {
		s.logger.Info("🎟️ Upload token issued",
			zap.Int("team_id", req.TeamID),
			zap.String("pathname", pathname),
		)
	}

	return &UploadToken{
		Filename:    pathname,
		UploadURL:   uploadURL,
		PublicURL:   s.storage.ObjectURL(pathname),
		ClientToken: token,
		ExpiresAt:   expiresAt,
		Timestamp:   ts,
	}, nil
}

// CompleteUpload verifies the client token and the object it authorized
func (s *Service) CompleteUpload(ctx context.Context, clientToken string) (out *CompletedUpload, err error) {
	defer func() { s.observe("direct", err) }()

	if strings.TrimSpace(clientToken) == "" {
		return nil, fmt.Errorf("%w: missing clientToken", usecaseErrors.ErrInvalidInput)
	}

	claims, err := s.tokens.ValidateUploadToken(clientToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidToken, err)
	}

	obj, err := s.storage.Stat(ctx, claims.Pathname)
	if err != nil {
		if errors.Is(err, entities.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrObjectMissing, claims.Pathname)
		}
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrStorage, err)
	}

	contentType := normalizeType(obj.ContentType)
	if !contains(claims.AllowedContentTypes, contentType) {
		return nil, &usecaseErrors.TypeError{ContentType: obj.ContentType, Allowed: claims.AllowedContentTypes}
	}
	if claims.MaxSize > 0 && obj.Size > claims.MaxSize {
		return nil, &usecaseErrors.SizeError{Size: obj.Size, Limit: claims.MaxSize}
	}

	if s.logger != nil {
		s.logger.Info("✅ Direct upload completed",
			zap.Int("team_id", claims.TeamID),
			zap.String("pathname", claims.Pathname),
			zap.Int64("size", obj.Size),
		)
	}

	return &CompletedUpload{
		URL:         obj.URL,
		Pathname:    claims.Pathname,
		ContentType: obj.ContentType,
		Size:        obj.Size,
	}, nil
}

func (s *Service) observe(kind string, err error) {
	if s.observer != nil {
		s.observer.ObserveUpload(kind, err)
	}
}

// audioAllowed checks the MIME allow-list, falling back to the extension for generic types
func (s *Service) audioAllowed(contentType, fileName string) bool {
	if contains(s.cfg.AllowedAudioTypes, contentType) {
		return true
	}
	if contentType != "" && contentType != "application/octet-stream" && isAudioType(contentType) {
		return false
	}
	ext := strings.ToLower(path.Ext(fileName))
	return ext != "" && contains(s.cfg.AllowedAudioExts, ext)
}

func (s *Service) allowedDirectTypes() []string {
	allowed := make([]string, 0, len(s.cfg.AllowedAudioTypes)+len(s.cfg.AllowedDocumentTypes))
	allowed = append(allowed, s.cfg.AllowedAudioTypes...)
	return append(allowed, s.cfg.AllowedDocumentTypes...)
}

func (s *Service) maxDirectBytes() int64 {
	if a, d := s.cfg.MaxAudioBytes(), s.cfg.MaxDocumentBytes(); d > a {
		return d
	}
	return s.cfg.MaxAudioBytes()
}

func audioExtension(fileName, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), "."); ext != "" {
		return ext
	}
	switch contentType {
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/mp4", "audio/x-m4a":
		return "m4a"
	case "audio/wav", "audio/x-wav":
		return "wav"
	case "audio/webm":
		return "webm"
	}
	return "mp3"
}

func normalizeType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func isAudioType(ct string) bool {
	return strings.HasPrefix(ct, "audio/")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug keeps object names URL-safe
func slug(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "file"
	}
	return s
}
