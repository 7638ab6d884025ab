package entities

import "time"

// StoredObject describes a write-once artifact in object storage
type StoredObject struct {
	Name         string    `json:"pathname"`
	URL          string    `json:"url"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified,omitempty"`
}
