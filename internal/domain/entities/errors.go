package entities

import "errors"

// Domain errors
var (
	// Catalog errors
	ErrTeamNotFound      = errors.New("team not found")
	ErrDocumentNotMapped = errors.New("no reference document mapped for team")
	ErrInvalidCatalog    = errors.New("invalid catalog")

	// Result errors
	ErrResultNotFound = errors.New("result not found")

	// Analysis errors
	ErrEmptySummary    = errors.New("analysis is missing a summary")
	ErrEmptyConclusion = errors.New("analysis is missing a conclusion")
	ErrEmptyCriticism  = errors.New("analysis is missing a criticism")

	// Storage errors
	ErrObjectNotFound = errors.New("object not found")
)
