package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/errors"
	"github.com/johnquangdev/oncovoice/internal/adapter/presenter"
	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/domain/repositories"
	"github.com/johnquangdev/oncovoice/internal/usecase/results"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ResultReader is the results use case consumed by the handler
type ResultReader interface {
	Snapshot(ctx context.Context) (*results.Snapshot, error)
	Get(ctx context.Context, teamID int) (*entities.TeamResult, error)
	ExportXLSX(ctx context.Context) ([]byte, error)
}

// Results serves the dashboard read path
type Results struct {
	service ResultReader
	catalog repositories.CatalogProvider
	logger  *zap.Logger
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(service ResultReader, catalog repositories.CatalogProvider, logger *zap.Logger) *Results {
	return &Results{
		service: service,
		catalog: catalog,
		logger:  logger,
	}
}

// List handles GET /results
// @Summary      List all team results
// @Description  Returns every known team keyed "team-<id>" (null when no record) and a polling hint
// @Tags         Results
// @Produce      json
// @Success      200  {object}  result.ResultsResponse
// @Failure      500  {object}  common.ErrorResponse  "Result store failure"
// @Router       /results [get]
func (h *Results) List(c echo.Context) error {
	snap, err := h.service.Snapshot(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToResultsResponse(snap))
}

// Get handles GET /results/:teamId
// @Summary      Get one team's result
// @Tags         Results
// @Produce      json
// @Param        teamId  path      int  true  "Team id"
// @Success      200     {object}  result.ResultResponse
// @Failure      400     {object}  common.ErrorResponse  "Invalid team id"
// @Failure      404     {object}  common.ErrorResponse  "Unknown team or no result yet"
// @Router       /results/{teamId} [get]
func (h *Results) Get(c echo.Context) error {
	teamID, err := parseTeamID(c.Param("teamId"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	r, err := h.service.Get(c.Request().Context(), teamID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToResultResponse(r))
}

// Export handles GET /results/export.xlsx
// @Summary      Export results as a spreadsheet
// @Tags         Results
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      500  {object}  common.ErrorResponse  "Export failure"
// @Router       /results/export.xlsx [get]
func (h *Results) Export(c echo.Context) error {
	data, err := h.service.ExportXLSX(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrExportFailed("xlsx", err))
	}

	name := fmt.Sprintf("results-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// Teams handles GET /teams
// @Summary      List sessions and teams
// @Tags         Teams
// @Produce      json
// @Success      200  {object}  team.CatalogResponse
// @Router       /teams [get]
func (h *Results) Teams(c echo.Context) error {
	return HandleSuccess(h.logger, c, presenter.ToCatalogResponse(h.catalog.Current()))
}
