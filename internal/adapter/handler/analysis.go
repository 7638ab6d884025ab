package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/johnquangdev/oncovoice/internal/adapter/dto/analysis"
	"github.com/johnquangdev/oncovoice/internal/usecase/analysis"
	"github.com/johnquangdev/oncovoice/internal/usecase/transcription"
)

// Transcriber is the transcription use case consumed by the handler
type Transcriber interface {
	Transcribe(ctx context.Context, req transcription.Request) (string, error)
}

// Submitter is the analysis use case consumed by the handler
type Submitter interface {
	Submit(ctx context.Context, in analysis.SubmitInput) (*analysis.Submission, error)
}

// Analysis handles transcription and analysis requests
type Analysis struct {
	transcriber Transcriber
	submitter   Submitter
	logger      *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(transcriber Transcriber, submitter Submitter, logger *zap.Logger) *Analysis {
	return &Analysis{
		transcriber: transcriber,
		submitter:   submitter,
		logger:      logger,
	}
}

// Transcribe handles POST /transcribe
// @Summary      Transcribe a stored recording
// @Description  Fetches the recording and returns the speech-to-text transcript
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request  body      analysis.TranscribeRequest  true  "Transcription request"
// @Success      200      {object}  analysis.TranscribeResponse
// @Failure      400      {object}  common.ErrorResponse  "Missing audioUrl"
// @Failure      404      {object}  common.ErrorResponse  "Audio not found"
// @Failure      500      {object}  common.ErrorResponse  "Fetch or provider failure"
// @Router       /transcribe [post]
func (h *Analysis) Transcribe(c echo.Context) error {
	var req dto.TranscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	text, err := h.transcriber.Transcribe(c.Request().Context(), transcription.Request{
		AudioURL:    req.AudioURL,
		ContentType: req.ContentType,
		FileName:    req.FileName,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &dto.TranscribeResponse{Transcript: text})
}

// Analyze handles POST /analyze
// @Summary      Analyze a team discussion
// @Description  Records the submission as processing and queues the critique. Poll /results for the outcome.
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request  body      analysis.AnalyzeRequest  true  "Analysis request"
// @Success      202      {object}  analysis.AnalyzeResponse
// @Failure      400      {object}  common.ErrorResponse  "Missing teamId or transcript"
// @Failure      404      {object}  common.ErrorResponse  "Unknown team or no reference document"
// @Failure      503      {object}  common.ErrorResponse  "Queue full"
// @Router       /analyze [post]
func (h *Analysis) Analyze(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	sub, err := h.submitter.Submit(c.Request().Context(), analysis.SubmitInput{
		TeamID:     req.TeamID.Int(),
		Transcript: req.Transcript,
		AudioURL:   req.AudioURL,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccessWithStatus(h.logger, c, http.StatusAccepted, &dto.AnalyzeResponse{
		Status:       string(sub.Status),
		TeamID:       sub.TeamID,
		SubmissionID: sub.SubmissionID,
	})
}
