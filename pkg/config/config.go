package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store backends
const (
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

// AI providers
const (
	ProviderOpenAI     = "openai"
	ProviderGroq       = "groq"
	ProviderGemini     = "gemini"
	ProviderAssemblyAI = "assemblyai"
)

// Config holds application configuration
type Config struct {
	Server        ServerConfig
	Log           LogConfig
	OpenAI        OpenAIConfig
	Transcription TranscriptionConfig
	Analysis      AnalysisConfig
	Narration     NarrationConfig
	Store         StoreConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Storage       StorageConfig
	Upload        UploadConfig
	Catalog       CatalogConfig
	Worker        WorkerConfig
	Dashboard     DashboardConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"30"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// OpenAIConfig holds credentials shared by the OpenAI-compatible clients
type OpenAIConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
}

// TranscriptionConfig selects and tunes the speech-to-text provider
type TranscriptionConfig struct {
	Provider         string        `envconfig:"TRANSCRIPTION_PROVIDER" default:"openai"`
	Model            string        `envconfig:"TRANSCRIPTION_MODEL" default:"whisper-1"`
	Language         string        `envconfig:"TRANSCRIPTION_LANGUAGE" default:"ar"`
	AssemblyAIAPIKey string        `envconfig:"ASSEMBLYAI_API_KEY"`
	Timeout          time.Duration `envconfig:"TRANSCRIPTION_TIMEOUT" default:"5m"`
}

// AnalysisConfig selects and tunes the language-model provider
type AnalysisConfig struct {
	Provider     string        `envconfig:"ANALYSIS_PROVIDER" default:"openai"`
	Model        string        `envconfig:"ANALYSIS_MODEL" default:"gpt-4o"`
	Temperature  float64       `envconfig:"ANALYSIS_TEMPERATURE" default:"0.4"`
	MaxTokens    int           `envconfig:"ANALYSIS_MAX_TOKENS" default:"3000"`
	GroqAPIKey   string        `envconfig:"GROQ_API_KEY"`
	GroqBaseURL  string        `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	GeminiAPIKey string        `envconfig:"GEMINI_API_KEY"`
	Timeout      time.Duration `envconfig:"ANALYSIS_TIMEOUT" default:"3m"`
}

// NarrationConfig controls speech synthesis of the critique
type NarrationConfig struct {
	Enabled bool   `envconfig:"NARRATION_ENABLED" default:"false"`
	Model   string `envconfig:"NARRATION_MODEL" default:"tts-1"`
	Voice   string `envconfig:"NARRATION_VOICE" default:"alloy"`
	Format  string `envconfig:"NARRATION_FORMAT" default:"mp3"`
}

// StoreConfig selects the result store backend
type StoreConfig struct {
	Backend   string `envconfig:"STORE_BACKEND" default:"memory"`
	KeyPrefix string `envconfig:"STORE_KEY_PREFIX" default:""`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"oncovoice"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"2"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"oncovoice"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string `envconfig:"STORAGE_PUBLIC_URL"`
}

// UploadConfig holds intake limits and client-token settings
type UploadConfig struct {
	MaxAudioSizeMB       int64         `envconfig:"MAX_AUDIO_SIZE_MB" default:"25"`
	MaxDocumentSizeMB    int64         `envconfig:"MAX_DOCUMENT_SIZE_MB" default:"10"`
	AllowedAudioTypes    []string      `envconfig:"ALLOWED_AUDIO_TYPES" default:"audio/mpeg,audio/mp3,audio/mp4,audio/x-m4a,audio/wav,audio/webm"`
	AllowedAudioExts     []string      `envconfig:"ALLOWED_AUDIO_EXTENSIONS" default:".mp3,.m4a,.wav,.webm"`
	AllowedDocumentTypes []string      `envconfig:"ALLOWED_DOCUMENT_TYPES" default:"application/pdf"`
	TokenSecret          string        `envconfig:"UPLOAD_TOKEN_SECRET" default:"change-me-upload-secret"`
	TokenTTL             time.Duration `envconfig:"UPLOAD_TOKEN_TTL" default:"15m"`
}

// CatalogConfig points at the team catalog file
type CatalogConfig struct {
	Path  string `envconfig:"CATALOG_PATH" default:"config/teams.yaml"`
	Watch bool   `envconfig:"CATALOG_WATCH" default:"true"`
}

// WorkerConfig sizes the analysis worker pool
type WorkerConfig struct {
	Count      int           `envconfig:"WORKER_COUNT" default:"4"`
	QueueSize  int           `envconfig:"QUEUE_SIZE" default:"32"`
	JobTimeout time.Duration `envconfig:"JOB_TIMEOUT" default:"5m"`
}

// DashboardConfig holds the polling hints served to dashboards
type DashboardConfig struct {
	RefreshInterval     time.Duration `envconfig:"DASHBOARD_REFRESH_INTERVAL" default:"30s"`
	FastRefreshInterval time.Duration `envconfig:"DASHBOARD_FAST_REFRESH_INTERVAL" default:"3s"`
	PreviewLength       int           `envconfig:"DASHBOARD_PREVIEW_LENGTH" default:"200"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv populates every section from the process environment without validation
func FromEnv() (*Config, error) {
	cfg := &Config{}
	sections := []interface{}{
		&cfg.Server,
		&cfg.Log,
		&cfg.OpenAI,
		&cfg.Transcription,
		&cfg.Analysis,
		&cfg.Narration,
		&cfg.Store,
		&cfg.Database,
		&cfg.Redis,
		&cfg.Storage,
		&cfg.Upload,
		&cfg.Catalog,
		&cfg.Worker,
		&cfg.Dashboard,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	cfg.Transcription.Provider = strings.ToLower(cfg.Transcription.Provider)
	cfg.Analysis.Provider = strings.ToLower(cfg.Analysis.Provider)
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Transcription.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai transcription provider")
		}
	case ProviderAssemblyAI:
		if c.Transcription.AssemblyAIAPIKey == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY is required for the assemblyai transcription provider")
		}
	default:
		return fmt.Errorf("unsupported TRANSCRIPTION_PROVIDER %q", c.Transcription.Provider)
	}

	switch c.Analysis.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai analysis provider")
		}
	case ProviderGroq:
		if c.Analysis.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required for the groq analysis provider")
		}
	case ProviderGemini:
		if c.Analysis.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini analysis provider")
		}
	default:
		return fmt.Errorf("unsupported ANALYSIS_PROVIDER %q", c.Analysis.Provider)
	}

	if c.Narration.Enabled && c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when NARRATION_ENABLED is set")
	}

	switch c.Store.Backend {
	case StoreBackendMemory, StoreBackendRedis, StoreBackendPostgres:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Upload.MaxAudioSizeMB <= 0 {
		return fmt.Errorf("MAX_AUDIO_SIZE_MB must be positive")
	}
	if c.Upload.MaxDocumentSizeMB <= 0 {
		return fmt.Errorf("MAX_DOCUMENT_SIZE_MB must be positive")
	}
	if len(c.Upload.AllowedAudioTypes) == 0 {
		return fmt.Errorf("ALLOWED_AUDIO_TYPES must not be empty")
	}
	if c.Upload.TokenSecret == "" {
		return fmt.Errorf("UPLOAD_TOKEN_SECRET is required")
	}
	if c.Server.Environment == "production" && c.Upload.TokenSecret == "change-me-upload-secret" {
		return fmt.Errorf("UPLOAD_TOKEN_SECRET must be changed in production")
	}

	if c.Worker.Count <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive")
	}
	if c.Worker.QueueSize <= 0 {
		return fmt.Errorf("QUEUE_SIZE must be positive")
	}
	if c.Worker.JobTimeout <= 0 {
		return fmt.Errorf("JOB_TIMEOUT must be positive")
	}

	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// MaxAudioBytes returns the audio size ceiling in bytes
func (u UploadConfig) MaxAudioBytes() int64 {
	return u.MaxAudioSizeMB * 1024 * 1024
}

// MaxDocumentBytes returns the reference document size ceiling in bytes
func (u UploadConfig) MaxDocumentBytes() int64 {
	return u.MaxDocumentSizeMB * 1024 * 1024
}
