package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/oncovoice/docs"
	"github.com/johnquangdev/oncovoice/internal/adapter/handler"
	"github.com/johnquangdev/oncovoice/internal/infrastructure/catalog"
	"github.com/johnquangdev/oncovoice/internal/infrastructure/document"
	"github.com/johnquangdev/oncovoice/internal/infrastructure/external/remote"
	httpmw "github.com/johnquangdev/oncovoice/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/oncovoice/internal/infrastructure/metrics"
	"github.com/johnquangdev/oncovoice/internal/infrastructure/storage"
	"github.com/johnquangdev/oncovoice/internal/usecase/analysis"
	"github.com/johnquangdev/oncovoice/internal/usecase/results"
	"github.com/johnquangdev/oncovoice/internal/usecase/transcription"
	"github.com/johnquangdev/oncovoice/internal/usecase/upload"
	"github.com/johnquangdev/oncovoice/pkg/config"
	"github.com/johnquangdev/oncovoice/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/oncovoice/pkg/validator"
)

// @title           OncoVoice API
// @version         1.0
// @description     Clinical discussion capture: upload, transcription, AI critique and live results.

// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("🔧 Initializing dependencies...",
		zap.String("environment", cfg.Server.Environment),
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("transcription_provider", cfg.Transcription.Provider),
		zap.String("analysis_provider", cfg.Analysis.Provider),
		zap.Bool("narration", cfg.Narration.Enabled),
	)

	// Catalog
	catalogProvider, err := catalog.NewFileProvider(cfg.Catalog.Path, logger)
	if err != nil {
		logger.Fatal("❌ Failed to load team catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if cfg.Catalog.Watch {
		go func() {
			if err := catalogProvider.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("❌ Catalog watcher stopped", zap.Error(err))
			}
		}()
	}

	// Result store
	store, closeStore, err := newResultStore(cfg, logger)
	if err != nil {
		logger.Fatal("❌ Failed to initialize result store", zap.Error(err))
	}
	defer closeStore()

	// Object storage
	logger.Info("🪣 Connecting to object storage...", zap.String("endpoint", cfg.Storage.Endpoint))
	objectStorage, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		logger.Fatal("❌ Failed to initialize object storage", zap.Error(err))
	}

	m := metrics.New()
	fetcher := remote.NewFetcher(&http.Client{Timeout: 2 * time.Minute})
	tokens := jwt.NewManager(cfg.Upload.TokenSecret, cfg.Upload.TokenTTL)

	// AI providers
	logger.Info("🤖 Initializing AI components...")
	transcriber := newTranscriber(cfg)
	analyzer := newAnalyzer(cfg)
	narrator := newNarrator(cfg)

	// Use cases
	uploadService := upload.NewService(catalogProvider, objectStorage, tokens, cfg.Upload, m, logger)
	transcriptionService := transcription.NewService(fetcher, transcriber, cfg.Transcription.Language, cfg.Upload.MaxAudioBytes(), m, logger)

	pipeline := analysis.NewPipeline(
		document.NewExtractor(fetcher, cfg.Upload.MaxDocumentBytes()),
		analyzer,
		narrator,
		objectStorage,
		store,
		m,
		logger,
	)
	pool := analysis.NewWorkerPool(pipeline, analysis.PoolConfig{
		Workers:    cfg.Worker.Count,
		QueueSize:  cfg.Worker.QueueSize,
		JobTimeout: cfg.Worker.JobTimeout,
	}, m, logger)
	if err := pool.Start(); err != nil {
		logger.Fatal("❌ Failed to start worker pool", zap.Error(err))
	}
	analysisService := analysis.NewService(catalogProvider, store, pool, logger)

	resultService := results.NewService(catalogProvider, store, results.PollConfig{
		Interval:     cfg.Dashboard.RefreshInterval,
		FastInterval: cfg.Dashboard.FastRefreshInterval,
	}, logger)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger, cfg.Upload.MaxAudioBytes())

	e.Use(middleware.RequestID())
	e.Use(httpmw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Upload.MaxAudioSizeMB+1)))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	router := handler.NewRouter(
		handler.NewUploadHandler(uploadService, logger),
		handler.NewAnalysisHandler(transcriptionService, analysisService, logger),
		handler.NewResultsHandler(resultService, catalogProvider, logger),
		handler.NewHealthHandler(cfg.Server.Environment, store, objectStorage, pool, logger),
		m.Handler(),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server", zap.String("addr", addr))

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("❌ Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}
	if err := pool.Stop(ctx); err != nil {
		logger.Warn("⚠️ Worker pool did not drain before the deadline", zap.Error(err))
	}
	stopWatch()

	logger.Info("✅ Server stopped gracefully")
}
