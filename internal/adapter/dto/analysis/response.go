package analysis

// TranscribeResponse holds the recognized text
type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

// AnalyzeResponse acknowledges a queued analysis
type AnalyzeResponse struct {
	Status       string `json:"status"`
	TeamID       int    `json:"teamId"`
	SubmissionID string `json:"submissionId"`
}
