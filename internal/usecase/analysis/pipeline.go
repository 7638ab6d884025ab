package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/oncovoice/internal/usecase/errors"
	"github.com/johnquangdev/oncovoice/pkg/ai"
	"github.com/johnquangdev/oncovoice/pkg/jobcontext"
)

const (
	persistTimeout    = 10 * time.Second
	persistMaxRetries = 4
)

// DocumentSource converts a reference document URL into text
type DocumentSource interface {
	Text(ctx context.Context, url string) (string, error)
}

// ProviderObserver records AI provider calls
type ProviderObserver interface {
	ObserveProvider(provider, operation string, d time.Duration, err error)
}

// Pipeline performs the background part of an analysis run:
// document text, model call, optional narration, terminal write.
type Pipeline struct {
	documents DocumentSource
	analyzer  ai.Analyzer
	narrator  ai.Synthesizer
	storage   repositories.ObjectStorage
	store     repositories.ResultStore
	observer  ProviderObserver
	logger    *zap.Logger

	newBackOff func() backoff.BackOff
	now        func() time.Time
}

// NewPipeline creates a pipeline. A nil narrator disables narration.
func NewPipeline(
	documents DocumentSource,
	analyzer ai.Analyzer,
	narrator ai.Synthesizer,
	storage repositories.ObjectStorage,
	store repositories.ResultStore,
	observer ProviderObserver,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		documents: documents,
		analyzer:  analyzer,
		narrator:  narrator,
		storage:   storage,
		store:     store,
		observer:  observer,
		logger:    logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return backoff.WithMaxRetries(b, persistMaxRetries)
		},
		now: time.Now,
	}
}

// Process runs the job and persists the completed or failed record
func (p *Pipeline) Process(ctx context.Context, job *Job) *entities.TeamResult {
	rec := job.Record.Clone()

	analysis, err := p.analyze(ctx, job)
	if err != nil {
		err = p.describeFailure(ctx, err)
		if p.logger != nil {
			p.logger.Error("❌ Analysis failed",
				zap.String("job_id", job.ID.String()),
				zap.Int("team_id", job.Team.ID),
				zap.Error(err),
			)
		}
		rec.Fail(err)
	} else {
		rec.Complete(*analysis, p.narrate(ctx, job, analysis))
		if p.logger != nil {
			p.logger.Info("✅ Analysis completed",
				zap.String("job_id", job.ID.String()),
				zap.Int("team_id", job.Team.ID),
				zap.Bool("narrated", rec.NarrationURL != ""),
			)
		}
	}

	if err := p.Persist(ctx, rec); err != nil && p.logger != nil {
		p.logger.Error("❌ Failed to persist terminal result",
			zap.String("job_id", job.ID.String()),
			zap.Int("team_id", job.Team.ID),
			zap.String("status", string(rec.Status)),
			zap.Error(err),
		)
	}
	return rec
}

func (p *Pipeline) analyze(ctx context.Context, job *Job) (analysis *entities.Analysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.logger != nil {
		p.logger.Info("📄 Extracting reference document",
			zap.Int("team_id", job.Team.ID),
			zap.String("document_url", job.DocumentURL),
		)
	}
	document, err := p.documents.Text(ctx, job.DocumentURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference document: %w", err)
	}

	if p.logger != nil {
		p.logger.Info("🧠 Analyzing discussion",
			zap.Int("team_id", job.Team.ID),
			zap.String("provider", p.analyzer.Name()),
			zap.Int("transcript_length", len(job.Transcript)),
			zap.Int("document_length", len(document)),
		)
	}

	start := time.Now()
	out, err := p.analyzer.Analyze(ctx, ai.AnalysisRequest{
		Transcript: job.Transcript,
		Document:   document,
		Topic:      job.Team.Topic,
	})
	p.observeProvider(p.analyzer.Name(), ai.OperationCompletion, start, err)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}

	result := entities.Analysis{
		Summary:    out.Summary,
		Conclusion: out.Conclusion,
		Criticism:  out.Criticism,
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

// narrate synthesizes the criticism and stores it; failures are logged and yield ""
func (p *Pipeline) narrate(ctx context.Context, job *Job, analysis *entities.Analysis) (url string) {
	if p.narrator == nil || p.storage == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			if p.logger != nil {
				p.logger.Warn("⚠️ Narration panicked, continuing without audio",
					zap.Int("team_id", job.Team.ID),
					zap.Any("panic", r),
				)
			}
			url = ""
		}
	}()

	start := time.Now()
	speech, err := p.narrator.Synthesize(ctx, analysis.Criticism)
	p.observeProvider(p.narrator.Name(), ai.OperationSynthesis, start, err)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("⚠️ Narration synthesis failed, continuing without audio",
				zap.Int("team_id", job.Team.ID),
				zap.Error(err),
			)
		}
		return ""
	}

	format := speech.Format
	if format == "" {
		format = "mp3"
	}
	name := fmt.Sprintf("team-%d-narration-%d.%s", job.Team.ID, p.now().UnixMilli(), format)
	obj, err := p.storage.Put(ctx, name, bytes.NewReader(speech.Audio), int64(len(speech.Audio)), speech.ContentType)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("⚠️ Narration upload failed, continuing without audio",
				zap.Int("team_id", job.Team.ID),
				zap.String("object", name),
				zap.Error(err),
			)
		}
		return ""
	}
	return obj.URL
}

// Persist writes a terminal record, retrying transient store failures.
// The write outlives job cancellation so abandoned jobs still record their failure.
func (p *Pipeline) Persist(ctx context.Context, rec *entities.TeamResult) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	operation := func() error {
		err := p.store.Set(writeCtx, rec)
		if err != nil && !jobcontext.IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(operation, backoff.WithContext(p.newBackOff(), writeCtx))
}

// describeFailure replaces bare context errors with a message a dashboard user can act on
func (p *Pipeline) describeFailure(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return usecaseErrors.ErrShuttingDown
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		meta := jobcontext.GetJobMetadata(ctx)
		return fmt.Errorf("analysis timed out after %s: %w", meta.Elapsed().Round(time.Second), err)
	}
	return err
}

func (p *Pipeline) observeProvider(provider, operation string, start time.Time, err error) {
	if p.observer != nil {
		p.observer.ObserveProvider(provider, operation, time.Since(start), err)
	}
}
