package entities

import (
	"fmt"
	"time"
)

// ResultStatus represents the lifecycle state of a team's result record
type ResultStatus string

const (
	ResultStatusIdle          ResultStatus = "idle"
	ResultStatusUploading     ResultStatus = "uploading"
	ResultStatusTranscribing  ResultStatus = "transcribing"
	ResultStatusExtractingPDF ResultStatus = "extracting_pdf"
	ResultStatusAnalyzing     ResultStatus = "analyzing"
	ResultStatusProcessing    ResultStatus = "processing"
	ResultStatusCompleted     ResultStatus = "completed"
	ResultStatusFailed        ResultStatus = "failed"
	ResultStatusError         ResultStatus = "error"
)

// IsTerminal reports whether no further transition is expected
func (s ResultStatus) IsTerminal() bool {
	switch s {
	case ResultStatusCompleted, ResultStatusFailed, ResultStatusError:
		return true
	}
	return false
}

// IsInFlight reports whether a pipeline run is still working on the record
func (s ResultStatus) IsInFlight() bool {
	switch s {
	case ResultStatusUploading, ResultStatusTranscribing, ResultStatusExtractingPDF,
		ResultStatusAnalyzing, ResultStatusProcessing:
		return true
	}
	return false
}

// TeamResult is the stored outcome, or in-progress marker, of one team's pipeline run
type TeamResult struct {
	TeamID       int          `json:"teamId"`
	TeamName     string       `json:"teamName"`
	SubmissionID string       `json:"submissionId,omitempty"`
	Transcript   string       `json:"transcript"`
	Summary      string       `json:"summary"`
	Conclusion   string       `json:"conclusion"`
	Criticism    string       `json:"criticism"`
	AudioFileURL string       `json:"audioFileUrl,omitempty"`
	NarrationURL string       `json:"narrationUrl,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	Status       ResultStatus `json:"status"`
	Error        string       `json:"error,omitempty"`
}

// NewProcessingResult creates the record written when analysis begins
func NewProcessingResult(team Team, submissionID, transcript, audioURL string) *TeamResult {
	return &TeamResult{
		TeamID:       team.ID,
		TeamName:     team.Name,
		SubmissionID: submissionID,
		Transcript:   transcript,
		AudioFileURL: audioURL,
		CreatedAt:    time.Now().UTC(),
		Status:       ResultStatusProcessing,
	}
}

// Complete moves the record to completed with the analysis fields
func (r *TeamResult) Complete(a Analysis, narrationURL string) {
	r.Summary = a.Summary
	r.Conclusion = a.Conclusion
	r.Criticism = a.Criticism
	r.NarrationURL = narrationURL
	r.Status = ResultStatusCompleted
	r.Error = ""
	r.CreatedAt = time.Now().UTC()
}

// Fail moves the record to failed carrying the error message
func (r *TeamResult) Fail(err error) {
	r.Status = ResultStatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.CreatedAt = time.Now().UTC()
}

// Clone returns an independent copy of the record
func (r *TeamResult) Clone() *TeamResult {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// ResultKey returns the store key for a team, e.g. "team-3"
func ResultKey(teamID int) string {
	return fmt.Sprintf("team-%d", teamID)
}
