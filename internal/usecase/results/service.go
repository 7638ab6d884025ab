package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/oncovoice/internal/usecase/errors"
)

const exportSheet = "Results"

// PollConfig holds the refresh hints handed to dashboards
type PollConfig struct {
	Interval     time.Duration
	FastInterval time.Duration
}

// Snapshot is the state of every known team at one instant
type Snapshot struct {
	// Results is keyed "team-<id>"; teams without a record map to nil
	Results      map[string]*entities.TeamResult
	PollInterval time.Duration
	InFlight     int
}

// Service serves the read path over the result store
type Service struct {
	catalog repositories.CatalogProvider
	store   repositories.ResultStore
	poll    PollConfig
	logger  *zap.Logger
}

// NewService creates a new results service
func NewService(catalog repositories.CatalogProvider, store repositories.ResultStore, poll PollConfig, logger *zap.Logger) *Service {
	if poll.Interval <= 0 {
		poll.Interval = 30 * time.Second
	}
	if poll.FastInterval <= 0 || poll.FastInterval > poll.Interval {
		poll.FastInterval = poll.Interval
	}
	return &Service{
		catalog: catalog,
		store:   store,
		poll:    poll,
		logger:  logger,
	}
}

// Snapshot reads the record of every catalog team
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	ids := s.catalog.Current().TeamIDs()

	found, err := s.store.List(ctx, ids)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to list results", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrStoreFailure, err)
	}

	snap := &Snapshot{
		Results:      make(map[string]*entities.TeamResult, len(ids)),
		PollInterval: s.poll.Interval,
	}
	for _, id := range ids {
		r := found[id]
		snap.Results[entities.ResultKey(id)] = r
		if r != nil && r.Status.IsInFlight() {
			snap.InFlight++
		}
	}
	if snap.InFlight > 0 {
		snap.PollInterval = s.poll.FastInterval
	}
	return snap, nil
}

// Get returns one team's record
func (s *Service) Get(ctx context.Context, teamID int) (*entities.TeamResult, error) {
	if _, ok := s.catalog.Current().Team(teamID); !ok {
		return nil, fmt.Errorf("%w: %d", usecaseErrors.ErrUnknownTeam, teamID)
	}

	r, err := s.store.Get(ctx, teamID)
	if errors.Is(err, entities.ErrResultNotFound) {
		return nil, fmt.Errorf("%w: no result for team %d", usecaseErrors.ErrNotFound, teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrStoreFailure, err)
	}
	return r, nil
}

// ExportXLSX renders every team as one spreadsheet row
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	current := s.catalog.Current()
	teams := current.Teams()

	found, err := s.store.List(ctx, current.TeamIDs())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrStoreFailure, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{
		"Team ID", "Team", "Session", "Topic", "Status", "Summary", "Conclusion",
		"Criticism", "Transcript", "Audio URL", "Narration URL", "Error", "Updated At",
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "M1", style)
	}
	_ = f.SetColWidth(exportSheet, "F", "I", 60)

	for i, team := range teams {
		row := []interface{}{team.ID, team.Name, team.SessionID, team.Topic, string(entities.ResultStatusIdle)}
		if r := found[team.ID]; r != nil {
			row = append(row[:4],
				string(r.Status), r.Summary, r.Conclusion, r.Criticism, r.Transcript,
				r.AudioFileURL, r.NarrationURL, r.Error, r.CreatedAt.Format(time.RFC3339),
			)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row for team %d: %w", team.ID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("📊 Results exported",
			zap.Int("teams", len(teams)),
			zap.Int("records", len(found)),
			zap.Int("bytes", buf.Len()),
		)
	}
	return buf.Bytes(), nil
}
