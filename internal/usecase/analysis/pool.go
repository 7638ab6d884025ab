package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/oncovoice/internal/usecase/errors"
	"github.com/johnquangdev/oncovoice/pkg/jobcontext"
)

// abandonGrace bounds how long Stop waits for cancelled jobs to record their failure
const abandonGrace = 15 * time.Second

// Job is one queued analysis run
type Job struct {
	ID          uuid.UUID
	Team        entities.Team
	DocumentURL string
	Transcript  string
	Record      *entities.TeamResult
	EnqueuedAt  time.Time

	// Done is invoked with the terminal record once it has been written
	Done func(*entities.TeamResult)
}

// Processor runs a job to completion and returns the terminal record
type Processor interface {
	Process(ctx context.Context, job *Job) *entities.TeamResult
}

// Recorder is implemented by processors that can write a record on the pool's behalf.
// The pool uses it to store the failed record of a job that panicked.
type Recorder interface {
	Persist(ctx context.Context, rec *entities.TeamResult) error
}

// PoolObserver records queue and job metrics
type PoolObserver interface {
	ObserveJob(status string, d time.Duration)
	SetQueueDepth(n int)
}

// PoolConfig sizes the worker pool
type PoolConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// WorkerPool runs analysis jobs from a bounded queue
type WorkerPool struct {
	processor Processor
	cfg       PoolConfig
	observer  PoolObserver
	logger    *zap.Logger

	jobs    chan *Job
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.Mutex
	started  bool
	closed   bool
	reserved int
	pending  sync.WaitGroup
}

// NewWorkerPool creates a pool; call Start before enqueueing
func NewWorkerPool(processor Processor, cfg PoolConfig, observer PoolObserver, logger *zap.Logger) *WorkerPool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		processor: processor,
		cfg:       cfg,
		observer:  observer,
		logger:    logger,
		jobs:      make(chan *Job, cfg.QueueSize),
		baseCtx:   ctx,
		cancel:    cancel,
	}
}

// Start launches the worker goroutines
func (p *WorkerPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("worker pool already running")
	}
	if p.closed {
		return usecaseErrors.ErrPoolStopped
	}
	p.started = true

	if p.logger != nil {
		p.logger.Info("🚀 Starting analysis worker pool",
			zap.Int("worker_count", p.cfg.Workers),
			zap.Int("queue_size", p.cfg.QueueSize),
			zap.Duration("job_timeout", p.cfg.JobTimeout),
		)
	}

	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return nil
}

// Enqueue admits a job. prepare runs only once a queue slot is reserved, so a
// full queue is reported before any side effect. The job is queued only if prepare
// succeeds. prepare runs outside the pool lock; concurrent submissions do not wait on it.
func (p *WorkerPool) Enqueue(job *Job, prepare func() error) error {
	if err := p.reserve(job); err != nil {
		return err
	}
	defer p.pending.Done()

	var err error
	if prepare != nil {
		err = prepare()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.reserved--
	if err != nil {
		return err
	}

	// Stop waits for reservations before closing the channel, and the
	// reservation guarantees buffer space, so this send never blocks.
	job.EnqueuedAt = time.Now()
	p.jobs <- job
	p.setDepth()
	return nil
}

func (p *WorkerPool) reserve(job *Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return usecaseErrors.ErrPoolStopped
	}
	if len(p.jobs)+p.reserved >= cap(p.jobs) {
		if p.logger != nil {
			p.logger.Warn("⚠️ Analysis queue full",
				zap.Int("team_id", job.Team.ID),
				zap.Int("queue_size", cap(p.jobs)),
			)
		}
		return usecaseErrors.ErrQueueFull
	}
	p.reserved++
	p.pending.Add(1)
	return nil
}

// Len returns the number of queued jobs
func (p *WorkerPool) Len() int {
	return len(p.jobs)
}

// Stop closes intake and drains queued jobs until ctx expires. Jobs still
// running at the deadline are cancelled and recorded as failed.
func (p *WorkerPool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started := p.started
	p.mu.Unlock()

	// Submissions already past reserve finish their write and land in the queue
	p.pending.Wait()
	close(p.jobs)

	if !started {
		p.cancel()
		return nil
	}

	if p.logger != nil {
		p.logger.Info("🛑 Stopping analysis worker pool...",
			zap.Int("queued", len(p.jobs)),
		)
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		if p.logger != nil {
			p.logger.Info("✅ Analysis worker pool drained")
		}
		return nil
	case <-ctx.Done():
	}

	if p.logger != nil {
		p.logger.Warn("⚠️ Shutdown deadline reached, abandoning in-flight analysis jobs",
			zap.Int("queued", len(p.jobs)),
		)
	}
	p.cancel()

	select {
	case <-done:
	case <-time.After(abandonGrace):
		if p.logger != nil {
			p.logger.Error("❌ Workers did not exit after cancellation")
		}
	}
	return ctx.Err()
}

func (p *WorkerPool) worker(workerID int) {
	defer p.wg.Done()

	if p.logger != nil {
		p.logger.Debug("👷 Worker started", zap.Int("worker_id", workerID))
	}

	for job := range p.jobs {
		p.setDepth()
		p.run(workerID, job)
	}

	if p.logger != nil {
		p.logger.Debug("👷 Worker stopping", zap.Int("worker_id", workerID))
	}
}

func (p *WorkerPool) run(workerID int, job *Job) {
	jobCtx, cancel := jobcontext.JobBegin(p.baseCtx, job.ID, job.Team.ID, workerID, p.cfg.JobTimeout)
	defer cancel()

	meta := jobcontext.GetJobMetadata(jobCtx)
	if p.logger != nil {
		p.logger.Info("👷 Worker claimed job",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.Int("team_id", job.Team.ID),
			zap.Duration("queued_for", time.Since(job.EnqueuedAt)),
		)
	}

	result := p.safeProcess(jobCtx, job)

	if p.observer != nil {
		p.observer.ObserveJob(string(result.Status), meta.Elapsed())
	}
	if job.Done != nil {
		job.Done(result.Clone())
	}
}

// safeProcess converts a processor panic into a failed record and stores it
func (p *WorkerPool) safeProcess(ctx context.Context, job *Job) (result *entities.TeamResult) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if p.logger != nil {
			p.logger.Error("❌ Analysis job panicked",
				zap.String("job_id", job.ID.String()),
				zap.Any("panic", r),
			)
		}
		result = job.Record.Clone()
		result.Fail(fmt.Errorf("panic recovered: %v", r))

		recorder, ok := p.processor.(Recorder)
		if !ok {
			return
		}
		if err := recorder.Persist(ctx, result); err != nil && p.logger != nil {
			p.logger.Error("❌ Failed to persist panicked job result",
				zap.String("job_id", job.ID.String()),
				zap.Int("team_id", job.Team.ID),
				zap.Error(err),
			)
		}
	}()
	return p.processor.Process(ctx, job)
}

func (p *WorkerPool) setDepth() {
	if p.observer != nil {
		p.observer.SetQueueDepth(len(p.jobs))
	}
}
