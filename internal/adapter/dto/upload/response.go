package upload

import "time"

// UploadAudioResponse describes a stored recording
type UploadAudioResponse struct {
	AudioURL         string `json:"audioUrl"`
	AudioContentType string `json:"audioContentType"`
	AudioFileName    string `json:"audioFileName"`
}

// UploadTokenResponse carries everything a client needs to upload directly to storage
type UploadTokenResponse struct {
	Filename    string    `json:"filename"`
	UploadURL   string    `json:"uploadUrl"`
	PublicURL   string    `json:"publicUrl"`
	ClientToken string    `json:"clientToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Timestamp   int64     `json:"timestamp"`
}

// CompleteUploadResponse describes a verified direct upload
type CompleteUploadResponse struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}
