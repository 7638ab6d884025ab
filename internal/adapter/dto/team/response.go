package team

// TeamResponse describes one discussion team
type TeamResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	TopicName   string `json:"topicName"`
	SessionID   int    `json:"sessionId"`
	HasDocument bool   `json:"hasDocument"`
}

// SessionResponse groups the teams of one breakout session
type SessionResponse struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Teams []*TeamResponse `json:"teams"`
}

// CatalogResponse lists sessions and teams
type CatalogResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Teams    []*TeamResponse    `json:"teams"`
}
