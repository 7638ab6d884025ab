package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/errors"
	"github.com/johnquangdev/oncovoice/internal/adapter/dto/common"
	usecaseErrors "github.com/johnquangdev/oncovoice/internal/usecase/errors"
)

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleSuccessWithStatus(logger, c, http.StatusOK, data)
}

// HandleSuccessWithStatus writes the success envelope with a custom HTTP status
func HandleSuccessWithStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Debug("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = MapError(err)
	}

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Int("status", appErr.HTTPCode),
			zap.String("app_code", appErr.Code.String()),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	return c.JSON(appErr.HTTPCode, common.ErrorResponse{
		Code:    int(appErr.Code),
		Message: appErr.Message,
		Info:    info,
	})
}

// NewHTTPErrorHandler renders errors raised outside handlers (routing, body limit,
// middleware) in the response envelope. uploadLimit is reported when a body is too large.
func NewHTTPErrorHandler(logger *zap.Logger, uploadLimit int64) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if stdErrors.As(err, &he) {
			err = mapHTTPError(he, c, uploadLimit)
		}
		if herr := HandleError(logger, c, err); herr != nil && logger != nil {
			logger.Error("❌ Failed to write error response", zap.Error(herr))
		}
	}
}

func mapHTTPError(he *echo.HTTPError, c echo.Context, uploadLimit int64) errors.AppError {
	message := http.StatusText(he.Code)
	if s, ok := he.Message.(string); ok && s != "" {
		message = s
	}

	switch he.Code {
	case http.StatusRequestEntityTooLarge:
		return errors.ErrFileTooLarge(c.Request().ContentLength, uploadLimit)
	case http.StatusNotFound:
		return errors.ErrNotFound("route")
	case http.StatusMethodNotAllowed:
		return errors.ErrMethodNotAllowed(c.Request().Method)
	case http.StatusServiceUnavailable:
		return errors.ErrServiceUnavailable(message)
	}
	if he.Code >= http.StatusInternalServerError {
		return errors.ErrInternal(he)
	}
	return errors.AppError{
		Raw:      he.Internal,
		HTTPCode: he.Code,
		Code:     errors.ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

// MapError translates use case errors into AppErrors
func MapError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var typeErr *usecaseErrors.TypeError
	var sizeErr *usecaseErrors.SizeError

	switch {
	case stdErrors.As(err, &typeErr):
		return errors.ErrUnsupportedMediaType(typeErr.ContentType, typeErr.Allowed)
	case stdErrors.As(err, &sizeErr):
		return errors.ErrFileTooLarge(sizeErr.Size, sizeErr.Limit)
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(strings.TrimPrefix(err.Error(), usecaseErrors.ErrInvalidInput.Error()+": "))
	case stdErrors.Is(err, usecaseErrors.ErrUnknownTeam):
		return errors.ErrNotFound("team")
	case stdErrors.Is(err, usecaseErrors.ErrDocumentNotMapped):
		return errors.ErrNotFound("reference document")
	case stdErrors.Is(err, usecaseErrors.ErrAudioNotFound):
		return errors.ErrNotFound("audio")
	case stdErrors.Is(err, usecaseErrors.ErrObjectMissing):
		return errors.ErrNotFound("uploaded object")
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		return errors.ErrNotFound("result")
	case stdErrors.Is(err, usecaseErrors.ErrInvalidToken):
		return errors.ErrInvalidUploadToken(err)
	case stdErrors.Is(err, usecaseErrors.ErrQueueFull):
		return errors.ErrAIQueueFull()
	case stdErrors.Is(err, usecaseErrors.ErrPoolStopped), stdErrors.Is(err, usecaseErrors.ErrShuttingDown):
		return errors.ErrServiceUnavailable("Service is shutting down")
	case stdErrors.Is(err, usecaseErrors.ErrAudioFetchFailed):
		return errors.ErrFetchFailed("audio", err)
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptionFailed):
		return errors.ErrAITranscriptionFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrStorage):
		return errors.ErrUploadFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrStoreFailure):
		return errors.ErrStoreFailed("access", err)
	}
	return errors.ErrInternal(err)
}

// bindAndValidate binds the request body and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		msg := err.Error()
		var he *echo.HTTPError
		if stdErrors.As(err, &he) {
			if s, ok := he.Message.(string); ok {
				msg = s
			}
			if he.Internal != nil {
				msg += ": " + he.Internal.Error()
			}
		}
		return errors.ErrInvalidArgument(msg)
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidArgument(err.Error())
	}
	return nil
}

// parseTeamID reads a positive team id from a path or form value
func parseTeamID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, errors.ErrInvalidArgument("teamId must be a positive integer")
	}
	return id, nil
}
