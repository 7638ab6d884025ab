package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/oncovoice/internal/usecase/errors"
)

// Queue admits jobs for background processing
type Queue interface {
	Enqueue(job *Job, prepare func() error) error
}

// SubmitInput is a request to analyze one team's transcript
type SubmitInput struct {
	TeamID     int
	Transcript string
	AudioURL   string
}

// Submission acknowledges an accepted analysis
type Submission struct {
	Status       entities.ResultStatus
	TeamID       int
	SubmissionID string
}

// Service validates analysis requests, writes the processing record and queues the job
type Service struct {
	catalog repositories.CatalogProvider
	store   repositories.ResultStore
	queue   Queue
	logger  *zap.Logger

	mu   sync.RWMutex
	acks []func(*entities.TeamResult)
}

// NewService creates a new analysis service
func NewService(catalog repositories.CatalogProvider, store repositories.ResultStore, queue Queue, logger *zap.Logger) *Service {
	return &Service{
		catalog: catalog,
		store:   store,
		queue:   queue,
		logger:  logger,
	}
}

// OnDone registers a callback invoked with every terminal record
func (s *Service) OnDone(fn func(*entities.TeamResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acks = append(s.acks, fn)
}

// Submit resolves the team's reference document, writes a processing record and
// queues the background run. Nothing is written when the team or document is unknown
// or the queue is full.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Submission, error) {
	if in.TeamID <= 0 || strings.TrimSpace(in.Transcript) == "" {
		return nil, fmt.Errorf("%w: teamId and transcript are required", usecaseErrors.ErrInvalidInput)
	}

	current := s.catalog.Current()
	team, ok := current.Team(in.TeamID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", usecaseErrors.ErrUnknownTeam, in.TeamID)
	}
	documentURL, ok := current.DocumentURL(in.TeamID)
	if !ok {
		if s.logger != nil {
			s.logger.Warn("⚠️ No reference document mapped",
				zap.Int("team_id", in.TeamID),
			)
		}
		return nil, fmt.Errorf("%w: team %d", usecaseErrors.ErrDocumentNotMapped, in.TeamID)
	}

	submissionID := uuid.New()
	record := entities.NewProcessingResult(team, submissionID.String(), in.Transcript, in.AudioURL)
	job := &Job{
		ID:          submissionID,
		Team:        team,
		DocumentURL: documentURL,
		Transcript:  in.Transcript,
		Record:      record,
		Done:        s.ack,
	}

	err := s.queue.Enqueue(job, func() error {
		if err := s.store.Set(ctx, record); err != nil {
			return fmt.Errorf("%w: %v", usecaseErrors.ErrStoreFailure, err)
		}
		return nil
	})
	if err != nil {
		if s.logger != nil && !errors.Is(err, usecaseErrors.ErrQueueFull) {
			s.logger.Error("❌ Failed to queue analysis",
				zap.Int("team_id", in.TeamID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("📥 Analysis queued",
			zap.Int("team_id", in.TeamID),
			zap.String("submission_id", record.SubmissionID),
		)
	}

	return &Submission{
		Status:       entities.ResultStatusProcessing,
		TeamID:       in.TeamID,
		SubmissionID: record.SubmissionID,
	}, nil
}

func (s *Service) ack(result *entities.TeamResult) {
	if s.logger != nil {
		s.logger.Info("🏁 Analysis job finished",
			zap.Int("team_id", result.TeamID),
			zap.String("submission_id", result.SubmissionID),
			zap.String("status", string(result.Status)),
		)
	}

	s.mu.RLock()
	acks := append([]func(*entities.TeamResult){}, s.acks...)
	s.mu.RUnlock()
	for _, fn := range acks {
		fn(result)
	}
}
