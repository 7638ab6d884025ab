package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/infrastructure/cache"
	"github.com/johnquangdev/oncovoice/internal/testutil"
	usecaseErrors "github.com/johnquangdev/oncovoice/internal/usecase/errors"
	"github.com/johnquangdev/oncovoice/pkg/ai"
)

type fakeDocuments struct {
	calls atomic.Int32
	err   error
}

func (f *fakeDocuments) Text(ctx context.Context, url string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return "reference text for " + url, nil
}

type fakeAnalyzer struct {
	calls  atomic.Int32
	result *ai.Analysis
	err    error
	block  bool
	gotReq ai.AnalysisRequest
	mu     sync.Mutex
}

func (f *fakeAnalyzer) Name() string { return "fake-llm" }

func (f *fakeAnalyzer) Analyze(ctx context.Context, req ai.AnalysisRequest) (*ai.Analysis, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.gotReq = req
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &ai.Analysis{
		Summary:    "summary of " + req.Transcript,
		Conclusion: "conclusion",
		Criticism:  "criticism",
	}, nil
}

type fakeNarrator struct {
	err error
}

func (f *fakeNarrator) Name() string { return "fake-tts" }

func (f *fakeNarrator) Synthesize(ctx context.Context, text string) (*ai.Speech, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Speech{Audio: []byte("mp3:" + text), ContentType: "audio/mpeg", Format: "mp3"}, nil
}

type harness struct {
	svc      *Service
	pool     *WorkerPool
	store    *cache.MemoryResultStore
	storage  *testutil.Storage
	docs     *fakeDocuments
	analyzer *fakeAnalyzer
	done     chan *entities.TeamResult
}

func newHarness(t *testing.T, narrator ai.Synthesizer, cfg PoolConfig, start bool) *harness {
	t.Helper()
	h := &harness{
		store:    cache.NewMemoryResultStore(""),
		storage:  testutil.NewStorage("http://blob.local/oncovoice"),
		docs:     &fakeDocuments{},
		analyzer: &fakeAnalyzer{},
		done:     make(chan *entities.TeamResult, 16),
	}
	pipeline := NewPipeline(h.docs, h.analyzer, narrator, h.storage, h.store, nil, nil)
	h.pool = NewWorkerPool(pipeline, cfg, nil, nil)
	h.svc = NewService(testutil.Catalog("http://docs.local"), h.store, h.pool, nil)
	h.svc.OnDone(func(r *entities.TeamResult) { h.done <- r })
	if start {
		require.NoError(t, h.pool.Start())
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.pool.Stop(ctx)
	})
	return h
}

func (h *harness) wait(t *testing.T) *entities.TeamResult {
	t.Helper()
	select {
	case r := <-h.done:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for analysis job")
		return nil
	}
}

func defaultPool() PoolConfig {
	return PoolConfig{Workers: 2, QueueSize: 8, JobTimeout: 5 * time.Second}
}

func TestSubmit_CompletesWithAllSections(t *testing.T) {
	h := newHarness(t, nil, defaultPool(), true)

	sub, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "the team discussed ILD"})
	require.NoError(t, err)
	assert.Equal(t, entities.ResultStatusProcessing, sub.Status)
	assert.Equal(t, 1, sub.TeamID)
	assert.NotEmpty(t, sub.SubmissionID)

	result := h.wait(t)
	assert.Equal(t, entities.ResultStatusCompleted, result.Status)
	assert.Equal(t, sub.SubmissionID, result.SubmissionID)
	assert.Equal(t, "summary of the team discussed ILD", result.Summary)
	assert.NotEmpty(t, result.Conclusion)
	assert.NotEmpty(t, result.Criticism)
	assert.Empty(t, result.NarrationURL)

	stored, err := h.store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entities.ResultStatusCompleted, stored.Status)
	assert.Equal(t, "Team 1", stored.TeamName)

	h.analyzer.mu.Lock()
	assert.Equal(t, "reference text for http://docs.local/1.pdf", h.analyzer.gotReq.Document)
	assert.Equal(t, "ILD and cancer therapy", h.analyzer.gotReq.Topic)
	h.analyzer.mu.Unlock()
}

func TestSubmit_WritesProcessingRecordBeforeWork(t *testing.T) {
	h := newHarness(t, nil, defaultPool(), false)

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 2, Transcript: "t", AudioURL: "http://blob.local/a.mp3"})
	require.NoError(t, err)

	stored, err := h.store.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, entities.ResultStatusProcessing, stored.Status)
	assert.Equal(t, "http://blob.local/a.mp3", stored.AudioFileURL)
	assert.Equal(t, int32(0), h.analyzer.calls.Load())
}

func TestSubmit_FailsFastWithoutDocument(t *testing.T) {
	h := newHarness(t, nil, defaultPool(), true)

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 3, Transcript: "t"})
	assert.ErrorIs(t, err, usecaseErrors.ErrDocumentNotMapped)

	_, err = h.store.Get(context.Background(), 3)
	assert.ErrorIs(t, err, entities.ErrResultNotFound)
	assert.Equal(t, int32(0), h.docs.calls.Load())
	assert.Equal(t, int32(0), h.analyzer.calls.Load())
}

func TestSubmit_InvalidInput(t *testing.T) {
	h := newHarness(t, nil, defaultPool(), true)

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "  "})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)

	_, err = h.svc.Submit(context.Background(), SubmitInput{Transcript: "t"})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)

	_, err = h.svc.Submit(context.Background(), SubmitInput{TeamID: 77, Transcript: "t"})
	assert.ErrorIs(t, err, usecaseErrors.ErrUnknownTeam)
}

func TestSubmit_QueueFullWritesNothing(t *testing.T) {
	h := newHarness(t, nil, PoolConfig{Workers: 1, QueueSize: 1}, false)

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "first"})
	require.NoError(t, err)

	_, err = h.svc.Submit(context.Background(), SubmitInput{TeamID: 2, Transcript: "second"})
	assert.ErrorIs(t, err, usecaseErrors.ErrQueueFull)

	_, err = h.store.Get(context.Background(), 2)
	assert.ErrorIs(t, err, entities.ErrResultNotFound)
}

func TestPipeline_AnalyzerFailureRecordsFailed(t *testing.T) {
	h := newHarness(t, nil, defaultPool(), true)
	h.analyzer.err = &ai.ProviderError{Provider: "fake-llm", Operation: ai.OperationCompletion, Message: "model overloaded"}

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "t"})
	require.NoError(t, err)

	result := h.wait(t)
	assert.Equal(t, entities.ResultStatusFailed, result.Status)
	assert.Contains(t, result.Error, "model overloaded")

	stored, err := h.store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entities.ResultStatusFailed, stored.Status)
}

func TestPipeline_EmptySectionRecordsFailed(t *testing.T) {
	h := newHarness(t, nil, defaultPool(), true)
	h.analyzer.result = &ai.Analysis{Summary: "s", Conclusion: "c", Criticism: " "}

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "t"})
	require.NoError(t, err)

	result := h.wait(t)
	assert.Equal(t, entities.ResultStatusFailed, result.Status)
	assert.Equal(t, entities.ErrEmptyCriticism.Error(), result.Error)
}

func TestPipeline_DocumentFailureRecordsFailed(t *testing.T) {
	h := newHarness(t, nil, defaultPool(), true)
	h.docs.err = errors.New("reference document not found")

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 2, Transcript: "t"})
	require.NoError(t, err)

	result := h.wait(t)
	assert.Equal(t, entities.ResultStatusFailed, result.Status)
	assert.Contains(t, result.Error, "reference document not found")
	assert.Equal(t, int32(0), h.analyzer.calls.Load())
}

func TestPipeline_NarrationStored(t *testing.T) {
	h := newHarness(t, &fakeNarrator{}, defaultPool(), true)

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "t"})
	require.NoError(t, err)

	result := h.wait(t)
	require.Equal(t, entities.ResultStatusCompleted, result.Status)
	require.NotEmpty(t, result.NarrationURL)
	assert.True(t, strings.HasPrefix(result.NarrationURL, "http://blob.local/oncovoice/team-1-narration-"))
	assert.True(t, strings.HasSuffix(result.NarrationURL, ".mp3"))

	names := h.storage.Names()
	require.Len(t, names, 1)
	obj, _ := h.storage.Object(names[0])
	assert.Equal(t, []byte("mp3:criticism"), obj.Data)
}

func TestPipeline_NarrationFailureTolerated(t *testing.T) {
	h := newHarness(t, &fakeNarrator{err: errors.New("tts down")}, defaultPool(), true)

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "t"})
	require.NoError(t, err)

	result := h.wait(t)
	assert.Equal(t, entities.ResultStatusCompleted, result.Status)
	assert.NotEmpty(t, result.Summary)
	assert.Empty(t, result.NarrationURL)
	assert.Empty(t, result.Error)
}

func TestPipeline_NarrationUploadFailureTolerated(t *testing.T) {
	h := newHarness(t, &fakeNarrator{}, defaultPool(), true)
	h.storage.PutErr = errors.New("bucket gone")

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "t"})
	require.NoError(t, err)

	result := h.wait(t)
	assert.Equal(t, entities.ResultStatusCompleted, result.Status)
	assert.Empty(t, result.NarrationURL)
}

func TestSubmit_LastWriteWins(t *testing.T) {
	h := newHarness(t, nil, PoolConfig{Workers: 1, QueueSize: 4, JobTimeout: time.Second}, true)

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "first"})
	require.NoError(t, err)
	second, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "second"})
	require.NoError(t, err)

	h.wait(t)
	h.wait(t)

	stored, err := h.store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, second.SubmissionID, stored.SubmissionID)
	assert.Equal(t, "summary of second", stored.Summary)
}

func TestPool_ShutdownDeadlineMarksFailed(t *testing.T) {
	h := newHarness(t, nil, PoolConfig{Workers: 1, QueueSize: 4, JobTimeout: time.Minute}, true)
	h.analyzer.block = true

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "t"})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return h.analyzer.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.pool.Stop(ctx), context.DeadlineExceeded)

	result := h.wait(t)
	assert.Equal(t, entities.ResultStatusFailed, result.Status)
	assert.Equal(t, usecaseErrors.ErrShuttingDown.Error(), result.Error)

	stored, err := h.store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entities.ResultStatusFailed, stored.Status)

	_, err = h.svc.Submit(context.Background(), SubmitInput{TeamID: 2, Transcript: "t"})
	assert.ErrorIs(t, err, usecaseErrors.ErrPoolStopped)
}

func TestPool_JobTimeoutMarksFailed(t *testing.T) {
	h := newHarness(t, nil, PoolConfig{Workers: 1, QueueSize: 1, JobTimeout: 50 * time.Millisecond}, true)
	h.analyzer.block = true

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "t"})
	require.NoError(t, err)

	result := h.wait(t)
	assert.Equal(t, entities.ResultStatusFailed, result.Status)
	assert.Contains(t, result.Error, "timed out")
}

type flakyStore struct {
	*cache.MemoryResultStore
	failures atomic.Int32
}

func (f *flakyStore) Set(ctx context.Context, r *entities.TeamResult) error {
	if r.Status.IsTerminal() && f.failures.Add(-1) >= 0 {
		return errors.New("dial tcp 10.0.0.5:6379: connection refused")
	}
	return f.MemoryResultStore.Set(ctx, r)
}

func TestPipeline_PersistRetriesTransientErrors(t *testing.T) {
	store := &flakyStore{MemoryResultStore: cache.NewMemoryResultStore("")}
	store.failures.Store(2)

	p := NewPipeline(&fakeDocuments{}, &fakeAnalyzer{}, nil, nil, store, nil, nil)
	team := entities.Team{ID: 1, Name: "Team 1"}
	job := &Job{Team: team, DocumentURL: "http://docs.local/1.pdf", Transcript: "t",
		Record: entities.NewProcessingResult(team, "sub", "t", "")}

	result := p.Process(context.Background(), job)
	assert.Equal(t, entities.ResultStatusCompleted, result.Status)

	stored, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entities.ResultStatusCompleted, stored.Status)
}

type panickyNarrator struct{}

func (panickyNarrator) Name() string { return "panicky-tts" }

func (panickyNarrator) Synthesize(ctx context.Context, text string) (*ai.Speech, error) {
	panic("tts client blew up")
}

func TestPipeline_NarrationPanicTolerated(t *testing.T) {
	h := newHarness(t, panickyNarrator{}, defaultPool(), true)

	_, err := h.svc.Submit(context.Background(), SubmitInput{TeamID: 1, Transcript: "t"})
	require.NoError(t, err)

	result := h.wait(t)
	assert.Equal(t, entities.ResultStatusCompleted, result.Status)
	assert.Empty(t, result.NarrationURL)

	stored, err := h.store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entities.ResultStatusCompleted, stored.Status)
	assert.Equal(t, "summary of t", stored.Summary)
}

type panickingProcessor struct {
	store *cache.MemoryResultStore
}

func (p *panickingProcessor) Process(ctx context.Context, job *Job) *entities.TeamResult {
	panic("processor exploded")
}

func (p *panickingProcessor) Persist(ctx context.Context, rec *entities.TeamResult) error {
	return p.store.Set(ctx, rec)
}

func TestPool_PanicPersistsFailedRecord(t *testing.T) {
	store := cache.NewMemoryResultStore("")
	pool := NewWorkerPool(&panickingProcessor{store: store}, PoolConfig{Workers: 1, QueueSize: 1}, nil, nil)
	require.NoError(t, pool.Start())
	t.Cleanup(func() { _ = pool.Stop(context.Background()) })

	team := entities.Team{ID: 4, Name: "Team 4"}
	record := entities.NewProcessingResult(team, "sub-4", "t", "")
	done := make(chan *entities.TeamResult, 1)
	job := &Job{Team: team, Record: record, Done: func(r *entities.TeamResult) { done <- r }}

	require.NoError(t, pool.Enqueue(job, func() error { return store.Set(context.Background(), record) }))

	var acked *entities.TeamResult
	select {
	case acked = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for panicked job")
	}
	assert.Equal(t, entities.ResultStatusFailed, acked.Status)
	assert.Contains(t, acked.Error, "processor exploded")

	stored, err := store.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, entities.ResultStatusFailed, stored.Status)
	assert.Equal(t, acked.Error, stored.Error)
}

func TestPool_SlowPrepareDoesNotBlockOtherSubmissions(t *testing.T) {
	pool := NewWorkerPool(idle{}, PoolConfig{Workers: 1, QueueSize: 2}, nil, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	slowErr := make(chan error, 1)
	go func() {
		slowErr <- pool.Enqueue(&Job{Team: entities.Team{ID: 1}}, func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	fast := make(chan error, 1)
	go func() { fast <- pool.Enqueue(&Job{Team: entities.Team{ID: 2}}, func() error { return nil }) }()
	select {
	case err := <-fast:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue waited on another submission's prepare")
	}

	// one queued plus one reserved fills the queue
	err := pool.Enqueue(&Job{Team: entities.Team{ID: 3}}, nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrQueueFull)

	close(release)
	require.NoError(t, <-slowErr)
	assert.Equal(t, 2, pool.Len())

	require.NoError(t, pool.Stop(context.Background()))
}

func TestPool_FailedPrepareReleasesSlot(t *testing.T) {
	pool := NewWorkerPool(idle{}, PoolConfig{Workers: 1, QueueSize: 1}, nil, nil)

	err := pool.Enqueue(&Job{Team: entities.Team{ID: 1}}, func() error { return usecaseErrors.ErrStoreFailure })
	assert.ErrorIs(t, err, usecaseErrors.ErrStoreFailure)
	assert.Equal(t, 0, pool.Len())

	require.NoError(t, pool.Enqueue(&Job{Team: entities.Team{ID: 1}}, nil))
	assert.Equal(t, 1, pool.Len())
}

type idle struct{}

func (idle) Process(ctx context.Context, job *Job) *entities.TeamResult { return job.Record }
