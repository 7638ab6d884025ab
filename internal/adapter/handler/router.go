package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Router holds all handlers
type Router struct {
	upload   *Upload
	analysis *Analysis
	results  *Results
	health   *Health
	metrics  http.Handler
}

// NewRouter creates a new router with all handlers. A nil metrics handler disables /metrics.
func NewRouter(upload *Upload, analysis *Analysis, results *Results, health *Health, metrics http.Handler) *Router {
	return &Router{
		upload:   upload,
		analysis: analysis,
		results:  results,
		health:   health,
		metrics:  metrics,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.health.Check)
	if rt.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metrics))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	rt.setupUploadRoutes(v1)
	rt.setupAnalysisRoutes(v1)
	rt.setupResultRoutes(v1)
}

// setupUploadRoutes configures recording and direct-upload routes
func (rt *Router) setupUploadRoutes(g *echo.Group) {
	g.POST("/upload", rt.upload.UploadAudio)
	g.POST("/upload-token", rt.upload.IssueToken)
	g.POST("/blob/complete", rt.upload.CompleteUpload)
}

// setupAnalysisRoutes configures transcription and analysis routes
func (rt *Router) setupAnalysisRoutes(g *echo.Group) {
	g.POST("/transcribe", rt.analysis.Transcribe)
	g.POST("/analyze", rt.analysis.Analyze)
}

// setupResultRoutes configures the dashboard read path
func (rt *Router) setupResultRoutes(g *echo.Group) {
	g.GET("/teams", rt.results.Teams)

	resultGroup := g.Group("/results")
	resultGroup.GET("", rt.results.List)
	resultGroup.GET("/export.xlsx", rt.results.Export)
	resultGroup.GET("/:teamId", rt.results.Get)
}
