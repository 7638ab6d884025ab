package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

// AssemblyAIClient transcribes audio with the official AssemblyAI SDK
type AssemblyAIClient struct {
	client   *aai.Client
	language string
}

// AssemblyAIOption configures an AssemblyAIClient
type AssemblyAIOption func(*assemblyAIConfig)

type assemblyAIConfig struct {
	baseURL    string
	httpClient *http.Client
	language   string
}

// WithAssemblyAIBaseURL sets a custom API root
func WithAssemblyAIBaseURL(url string) AssemblyAIOption {
	return func(c *assemblyAIConfig) {
		c.baseURL = url
	}
}

// WithAssemblyAIHTTPClient sets a custom HTTP client
func WithAssemblyAIHTTPClient(client *http.Client) AssemblyAIOption {
	return func(c *assemblyAIConfig) {
		c.httpClient = client
	}
}

// WithAssemblyAILanguage sets the default spoken language
func WithAssemblyAILanguage(language string) AssemblyAIOption {
	return func(c *assemblyAIConfig) {
		if language != "" {
			c.language = language
		}
	}
}

// NewAssemblyAIClient creates an AssemblyAI transcriber
func NewAssemblyAIClient(apiKey string, opts ...AssemblyAIOption) *AssemblyAIClient {
	cfg := &assemblyAIConfig{language: DefaultLanguage}
	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := []aai.ClientOption{aai.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, aai.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, aai.WithHTTPClient(cfg.httpClient))
	}

	return &AssemblyAIClient{
		client:   aai.NewClientWithOptions(clientOpts...),
		language: cfg.language,
	}
}

// Name returns the provider identifier
func (c *AssemblyAIClient) Name() string {
	return "assemblyai"
}

// Transcribe uploads the audio, submits a transcript and waits for it to complete
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audio []byte, opts TranscriptionOptions) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	language := opts.Language
	if language == "" {
		language = c.language
	}

	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(language),
		Punctuate:    aai.Bool(true),
		FormatText:   aai.Bool(true),
	}

	transcript, err := c.client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(audio), params)
	if err != nil {
		var apiErr aai.APIError
		if errors.As(err, &apiErr) {
			return "", classifyStatus(&ProviderError{
				Provider:   c.Name(),
				Operation:  OperationTranscription,
				StatusCode: apiErr.Status,
				Code:       fmt.Sprintf("%d", apiErr.Status),
				Message:    apiErr.Message,
			})
		}
		return "", requestFailed(c.Name(), OperationTranscription, err)
	}

	switch transcript.Status {
	case aai.TranscriptStatusCompleted:
		if transcript.Text == nil || strings.TrimSpace(*transcript.Text) == "" {
			return "", &ProviderError{Provider: c.Name(), Operation: OperationTranscription, Message: "empty transcript", Cause: ErrEmptyResponse}
		}
		return *transcript.Text, nil
	case aai.TranscriptStatusError:
		msg := "transcription failed"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", &ProviderError{Provider: c.Name(), Operation: OperationTranscription, Code: string(transcript.Status), Message: msg}
	default:
		return "", &ProviderError{
			Provider:  c.Name(),
			Operation: OperationTranscription,
			Code:      string(transcript.Status),
			Message:   fmt.Sprintf("transcript not finished: %s", transcript.Status),
			Retryable: true,
		}
	}
}
