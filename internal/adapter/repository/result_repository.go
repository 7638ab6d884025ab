package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/domain/repositories"
)

// teamResultRow is the persisted form of a result record
type teamResultRow struct {
	TeamID       int            `gorm:"column:team_id;primaryKey;autoIncrement:false"`
	SubmissionID string         `gorm:"column:submission_id"`
	Status       string         `gorm:"column:status"`
	Payload      datatypes.JSON `gorm:"column:payload;type:jsonb"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (teamResultRow) TableName() string {
	return "team_results"
}

// ResultRepository is a Postgres-backed result store with one row per team
type ResultRepository struct {
	db *gorm.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *gorm.DB) repositories.ResultStore {
	return &ResultRepository{db: db}
}

func toRow(r *entities.TeamResult) (*teamResultRow, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &teamResultRow{
		TeamID:       r.TeamID,
		SubmissionID: r.SubmissionID,
		Status:       string(r.Status),
		Payload:      datatypes.JSON(payload),
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

func fromRow(row *teamResultRow) (*entities.TeamResult, error) {
	var r entities.TeamResult
	if err := json.Unmarshal(row.Payload, &r); err != nil {
		return nil, fmt.Errorf("failed to decode result for team %d: %w", row.TeamID, err)
	}
	return &r, nil
}

// Set upserts the team's row
func (r *ResultRepository) Set(ctx context.Context, result *entities.TeamResult) error {
	if result == nil {
		return fmt.Errorf("result is nil")
	}
	row, err := toRow(result)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"submission_id", "status", "payload", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert result for team %d: %w", result.TeamID, err)
	}
	return nil
}

// Get reads the team's row
func (r *ResultRepository) Get(ctx context.Context, teamID int) (*entities.TeamResult, error) {
	var row teamResultRow
	err := r.db.WithContext(ctx).Where("team_id = ?", teamID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to read result for team %d: %w", teamID, err)
	}
	return fromRow(&row)
}

// List reads the rows of the given teams
func (r *ResultRepository) List(ctx context.Context, teamIDs []int) (map[int]*entities.TeamResult, error) {
	out := make(map[int]*entities.TeamResult, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}

	var rows []teamResultRow
	if err := r.db.WithContext(ctx).Where("team_id IN ?", teamIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	for i := range rows {
		rec, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out[rows[i].TeamID] = rec
	}
	return out, nil
}

// Ping checks the database connection
func (r *ResultRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
