package analysis

import "github.com/johnquangdev/oncovoice/internal/adapter/dto/common"

// TranscribeRequest points at a stored recording
type TranscribeRequest struct {
	AudioURL    string `json:"audioUrl" validate:"required"`
	ContentType string `json:"contentType,omitempty"`
	FileName    string `json:"fileName,omitempty"`
}

// AnalyzeRequest submits a team's transcript for critique
type AnalyzeRequest struct {
	TeamID     common.TeamID `json:"teamId" validate:"required,min=1"`
	Transcript string        `json:"transcript" validate:"required"`
	AudioURL   string        `json:"audioUrl,omitempty" validate:"omitempty,url"`
}
