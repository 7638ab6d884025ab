package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
)

// sqlRecorder captures every statement gorm builds
type sqlRecorder struct {
	mu    sync.Mutex
	stmts []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface      { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, sql)
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.stmts)
	return r.stmts[len(r.stmts)-1]
}

// dryRunRepo builds statements against the Postgres dialect without a server
func dryRunRepo(t *testing.T) (*ResultRepository, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=oncovoice dbname=oncovoice sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return &ResultRepository{db: db}, rec
}

func TestRowConversion_PreservesRecord(t *testing.T) {
	rec := entities.NewProcessingResult(entities.Team{ID: 4, Name: "Team 4"}, "sub-4", "transcript", "http://audio/4.mp3")
	rec.Fail(errors.New("document not found"))

	row, err := toRow(rec)
	require.NoError(t, err)
	assert.Equal(t, 4, row.TeamID)
	assert.Equal(t, "sub-4", row.SubmissionID)
	assert.Equal(t, "failed", row.Status)
	assert.Equal(t, "team_results", row.TableName())

	back, err := fromRow(row)
	require.NoError(t, err)
	assert.Equal(t, rec.TeamName, back.TeamName)
	assert.Equal(t, rec.Error, back.Error)
	assert.Equal(t, rec.AudioFileURL, back.AudioFileURL)
	assert.True(t, rec.CreatedAt.Equal(back.CreatedAt))
}

func TestFromRow_RejectsCorruptPayload(t *testing.T) {
	_, err := fromRow(&teamResultRow{TeamID: 9, Payload: []byte("{oops")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "team 9")
}

func TestResultRepository_SetUpsertsByTeam(t *testing.T) {
	repo, rec := dryRunRepo(t)
	ctx := context.Background()

	first := entities.NewProcessingResult(entities.Team{ID: 4, Name: "Team 4"}, "sub-1", "t", "")
	require.NoError(t, repo.Set(ctx, first))
	sql := rec.last(t)

	assert.Contains(t, sql, `INSERT INTO "team_results"`)
	assert.Contains(t, sql, `ON CONFLICT ("team_id") DO UPDATE SET`)
	for _, col := range []string{"submission_id", "status", "payload", "updated_at"} {
		assert.Contains(t, sql, `"`+col+`"="excluded"."`+col+`"`)
	}
	assert.Contains(t, sql, "'sub-1'")

	second := first.Clone()
	second.SubmissionID = "sub-2"
	second.Complete(entities.Analysis{Summary: "s", Conclusion: "c", Criticism: "k"}, "")
	require.NoError(t, repo.Set(ctx, second))
	sql = rec.last(t)
	assert.Contains(t, sql, `ON CONFLICT ("team_id") DO UPDATE SET`)
	assert.Contains(t, sql, "'sub-2'")
	assert.Contains(t, sql, "'completed'")
}

func TestResultRepository_SetRejectsNil(t *testing.T) {
	repo, rec := dryRunRepo(t)
	assert.Error(t, repo.Set(context.Background(), nil))
	assert.Empty(t, rec.stmts)
}

func TestResultRepository_ListQueriesRequestedTeams(t *testing.T) {
	repo, rec := dryRunRepo(t)

	out, err := repo.List(context.Background(), []int{1, 2, 3})
	require.NoError(t, err)
	assert.Empty(t, out)

	sql := rec.last(t)
	assert.Contains(t, sql, `SELECT * FROM "team_results"`)
	assert.Contains(t, sql, "team_id IN (1,2,3)")
}

func TestResultRepository_ListWithoutTeamsSkipsQuery(t *testing.T) {
	repo, rec := dryRunRepo(t)

	out, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, rec.stmts)
}
