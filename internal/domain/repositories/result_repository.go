package repositories

import (
	"context"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
)

// ResultStore persists one result record per team, last write wins
type ResultStore interface {
	// Get returns entities.ErrResultNotFound when the team has no record
	Get(ctx context.Context, teamID int) (*entities.TeamResult, error)
	Set(ctx context.Context, result *entities.TeamResult) error
	// List returns the records present among teamIDs; absent teams are omitted
	List(ctx context.Context, teamIDs []int) (map[int]*entities.TeamResult, error)
	Ping(ctx context.Context) error
}
