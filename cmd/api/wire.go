package main

import (
	"fmt"
	"net/http"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/johnquangdev/oncovoice/internal/adapter/repository"
	"github.com/johnquangdev/oncovoice/internal/domain/repositories"
	"github.com/johnquangdev/oncovoice/internal/infrastructure/cache"
	"github.com/johnquangdev/oncovoice/internal/infrastructure/database"
	"github.com/johnquangdev/oncovoice/pkg/ai"
	"github.com/johnquangdev/oncovoice/pkg/config"
)

// newLogger builds a production JSON logger, or a console logger outside production
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Log.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Server.Environment != "production" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// newResultStore opens the configured backend and returns a cleanup func
func newResultStore(cfg *config.Config, logger *zap.Logger) (repositories.ResultStore, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		logger.Info("📦 Connecting to Redis...", zap.String("addr", cfg.GetRedisAddr()))
		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return cache.NewRedisResultStore(client, cfg.Store.KeyPrefix), func() { _ = client.Close() }, nil

	case config.StoreBackendPostgres:
		logger.Info("📦 Connecting to database...", zap.String("host", cfg.Database.Host))
		db, err := database.NewPostgresDB(cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			n, err := database.Migrate(db, migrate.Up)
			if err != nil {
				_ = database.CloseDB(db, logger)
				return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			logger.Info("🔄 Migrations applied", zap.Int("count", n))
		}
		return repository.NewResultRepository(db), func() { _ = database.CloseDB(db, logger) }, nil
	}

	logger.Warn("⚠️ Using in-memory result store; results are lost on restart")
	return cache.NewMemoryResultStore(cfg.Store.KeyPrefix), func() {}, nil
}

func newTranscriber(cfg *config.Config) ai.Transcriber {
	client := &http.Client{Timeout: cfg.Transcription.Timeout}
	if cfg.Transcription.Provider == config.ProviderAssemblyAI {
		return ai.NewAssemblyAIClient(cfg.Transcription.AssemblyAIAPIKey,
			ai.WithAssemblyAIHTTPClient(client),
			ai.WithAssemblyAILanguage(cfg.Transcription.Language),
		)
	}
	return ai.NewWhisperClient(cfg.OpenAI.APIKey,
		ai.WithWhisperBaseURL(cfg.OpenAI.BaseURL),
		ai.WithWhisperHTTPClient(client),
		ai.WithWhisperModel(cfg.Transcription.Model),
		ai.WithWhisperLanguage(cfg.Transcription.Language),
	)
}

func newAnalyzer(cfg *config.Config) ai.Analyzer {
	client := &http.Client{Timeout: cfg.Analysis.Timeout}
	switch cfg.Analysis.Provider {
	case config.ProviderGroq:
		model := cfg.Analysis.Model
		if model == ai.ModelGPT4o {
			model = ai.ModelLlama70B
		}
		return ai.NewGroqAnalyzer(cfg.Analysis.GroqAPIKey,
			ai.WithChatBaseURL(cfg.Analysis.GroqBaseURL),
			ai.WithChatHTTPClient(client),
			ai.WithChatModel(model),
			ai.WithTemperature(cfg.Analysis.Temperature),
			ai.WithMaxTokens(cfg.Analysis.MaxTokens),
		)
	case config.ProviderGemini:
		opts := []ai.GeminiOption{
			ai.WithGeminiTemperature(cfg.Analysis.Temperature),
			ai.WithGeminiMaxTokens(cfg.Analysis.MaxTokens),
		}
		if cfg.Analysis.Model != ai.ModelGPT4o {
			opts = append(opts, ai.WithGeminiModel(cfg.Analysis.Model))
		}
		return ai.NewGeminiAnalyzer(cfg.Analysis.GeminiAPIKey, opts...)
	}
	return ai.NewOpenAIAnalyzer(cfg.OpenAI.APIKey,
		ai.WithChatBaseURL(cfg.OpenAI.BaseURL),
		ai.WithChatHTTPClient(client),
		ai.WithChatModel(cfg.Analysis.Model),
		ai.WithTemperature(cfg.Analysis.Temperature),
		ai.WithMaxTokens(cfg.Analysis.MaxTokens),
	)
}

// newNarrator returns nil when narration is disabled
func newNarrator(cfg *config.Config) ai.Synthesizer {
	if !cfg.Narration.Enabled {
		return nil
	}
	return ai.NewSpeechClient(cfg.OpenAI.APIKey,
		ai.WithSpeechBaseURL(cfg.OpenAI.BaseURL),
		ai.WithSpeechHTTPClient(&http.Client{Timeout: cfg.Analysis.Timeout}),
		ai.WithSpeechModel(cfg.Narration.Model),
		ai.WithVoice(cfg.Narration.Voice),
		ai.WithSpeechFormat(cfg.Narration.Format),
	)
}
