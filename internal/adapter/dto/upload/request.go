package upload

import "github.com/johnquangdev/oncovoice/internal/adapter/dto/common"

// UploadTokenRequest asks for a presigned upload slot
type UploadTokenRequest struct {
	Filename string        `json:"filename" validate:"required"`
	TeamID   common.TeamID `json:"teamId" validate:"required,min=1"`
}

// CompleteUploadRequest confirms a direct upload
type CompleteUploadRequest struct {
	ClientToken string `json:"clientToken" validate:"required"`
}
