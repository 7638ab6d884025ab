package result

import "time"

// ResultResponse is one team's stored record
type ResultResponse struct {
	TeamID       int       `json:"teamId"`
	TeamName     string    `json:"teamName"`
	SubmissionID string    `json:"submissionId,omitempty"`
	Status       string    `json:"status"`
	Transcript   string    `json:"transcript"`
	Summary      string    `json:"summary"`
	Conclusion   string    `json:"conclusion"`
	Criticism    string    `json:"criticism"`
	AudioFileURL string    `json:"audioFileUrl,omitempty"`
	NarrationURL string    `json:"narrationUrl,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ResultsResponse maps "team-<id>" to the team's record, or null when none exists
type ResultsResponse struct {
	Results        map[string]*ResultResponse `json:"results"`
	PollIntervalMs int64                      `json:"pollIntervalMs"`
}
