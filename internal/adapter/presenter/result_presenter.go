package presenter

import (
	"github.com/johnquangdev/oncovoice/internal/adapter/dto/result"
	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/usecase/results"
)

// ToResultResponse converts a TeamResult entity to ResultResponse DTO
func ToResultResponse(r *entities.TeamResult) *result.ResultResponse {
	if r == nil {
		return nil
	}

	return &result.ResultResponse{
		TeamID:       r.TeamID,
		TeamName:     r.TeamName,
		SubmissionID: r.SubmissionID,
		Status:       string(r.Status),
		Transcript:   r.Transcript,
		Summary:      r.Summary,
		Conclusion:   r.Conclusion,
		Criticism:    r.Criticism,
		AudioFileURL: r.AudioFileURL,
		NarrationURL: r.NarrationURL,
		Error:        r.Error,
		CreatedAt:    r.CreatedAt,
	}
}

// ToResultsResponse converts a snapshot to ResultsResponse, keeping null entries
func ToResultsResponse(s *results.Snapshot) *result.ResultsResponse {
	out := &result.ResultsResponse{
		Results:        make(map[string]*result.ResultResponse, len(s.Results)),
		PollIntervalMs: s.PollInterval.Milliseconds(),
	}
	for key, r := range s.Results {
		out.Results[key] = ToResultResponse(r)
	}
	return out
}
