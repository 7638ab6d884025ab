package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/errors"
	dto "github.com/johnquangdev/oncovoice/internal/adapter/dto/upload"
	"github.com/johnquangdev/oncovoice/internal/usecase/upload"
)

// Uploader is the upload use case consumed by the handler
type Uploader interface {
	UploadAudio(ctx context.Context, in upload.AudioUpload) (*upload.UploadedAudio, error)
	IssueToken(ctx context.Context, req upload.TokenRequest) (*upload.UploadToken, error)
	CompleteUpload(ctx context.Context, clientToken string) (*upload.CompletedUpload, error)
}

// Upload handles recording and document intake
type Upload struct {
	service Uploader
	logger  *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service Uploader, logger *zap.Logger) *Upload {
	return &Upload{
		service: service,
		logger:  logger,
	}
}

// UploadAudio handles POST /upload
// @Summary      Upload a discussion recording
// @Description  Stores a team's audio recording in object storage and returns its public URL
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio   formData  file    true  "Audio recording (mp3, m4a, wav, webm)"
// @Param        teamId  formData  int     true  "Team id"
// @Success      200     {object}  upload.UploadAudioResponse
// @Failure      400     {object}  common.ErrorResponse  "Missing file, unknown team, bad type or too large"
// @Failure      500     {object}  common.ErrorResponse  "Storage failure"
// @Router       /upload [post]
func (h *Upload) UploadAudio(c echo.Context) error {
	teamID, err := parseTeamID(c.FormValue("teamId"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("audio file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("failed to read audio file"))
	}
	defer file.Close()

	out, err := h.service.UploadAudio(c.Request().Context(), upload.AudioUpload{
		TeamID:      teamID,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Size:        fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &dto.UploadAudioResponse{
		AudioURL:         out.AudioURL,
		AudioContentType: out.AudioContentType,
		AudioFileName:    out.AudioFileName,
	})
}

// IssueToken handles POST /upload-token
// @Summary      Request a direct upload slot
// @Description  Reserves a unique object name and returns a presigned PUT URL plus a signed client token
// @Tags         Upload
// @Accept       json
// @Produce      json
// @Param        request  body      upload.UploadTokenRequest  true  "Upload token request"
// @Success      200      {object}  upload.UploadTokenResponse
// @Failure      400      {object}  common.ErrorResponse  "Missing filename or teamId"
// @Failure      500      {object}  common.ErrorResponse  "Token or presign failure"
// @Router       /upload-token [post]
func (h *Upload) IssueToken(c echo.Context) error {
	var req dto.UploadTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	out, err := h.service.IssueToken(c.Request().Context(), upload.TokenRequest{
		Filename: req.Filename,
		TeamID:   req.TeamID.Int(),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &dto.UploadTokenResponse{
		Filename:    out.Filename,
		UploadURL:   out.UploadURL,
		PublicURL:   out.PublicURL,
		ClientToken: out.ClientToken,
		ExpiresAt:   out.ExpiresAt,
		Timestamp:   out.Timestamp,
	})
}

// CompleteUpload handles POST /blob/complete
// @Summary      Confirm a direct upload
// @Description  Verifies the client token, then checks the stored object's type and size
// @Tags         Upload
// @Accept       json
// @Produce      json
// @Param        request  body      upload.CompleteUploadRequest  true  "Completion request"
// @Success      200      {object}  upload.CompleteUploadResponse
// @Failure      400      {object}  common.ErrorResponse  "Missing token, bad type or too large"
// @Failure      401      {object}  common.ErrorResponse  "Invalid or expired token"
// @Failure      404      {object}  common.ErrorResponse  "Object not uploaded"
// @Router       /blob/complete [post]
func (h *Upload) CompleteUpload(c echo.Context) error {
	var req dto.CompleteUploadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	out, err := h.service.CompleteUpload(c.Request().Context(), req.ClientToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &dto.CompleteUploadResponse{
		URL:         out.URL,
		Pathname:    out.Pathname,
		ContentType: out.ContentType,
		Size:        out.Size,
	})
}
