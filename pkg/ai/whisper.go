package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"
)

const (
	// OpenAIBaseURL is the default OpenAI API root
	OpenAIBaseURL = "https://api.openai.com/v1"

	// ModelWhisper1 is the OpenAI Whisper transcription model
	ModelWhisper1 = "whisper-1"

	// DefaultLanguage is the expected spoken language of discussions
	DefaultLanguage = "ar"

	whisperEndpoint       = "/audio/transcriptions"
	defaultWhisperTimeout = 5 * time.Minute
)

// WhisperClient transcribes audio with the OpenAI Whisper API
type WhisperClient struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	model    string
	language string
}

// WhisperOption configures a WhisperClient
type WhisperOption func(*WhisperClient)

// WithWhisperBaseURL sets a custom base URL
func WithWhisperBaseURL(url string) WhisperOption {
	return func(c *WhisperClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithWhisperHTTPClient sets a custom HTTP client
func WithWhisperHTTPClient(client *http.Client) WhisperOption {
	return func(c *WhisperClient) {
		c.client = client
	}
}

// WithWhisperModel sets the transcription model
func WithWhisperModel(model string) WhisperOption {
	return func(c *WhisperClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithWhisperLanguage sets the default spoken language
func WithWhisperLanguage(language string) WhisperOption {
	return func(c *WhisperClient) {
		if language != "" {
			c.language = language
		}
	}
}

// NewWhisperClient creates a Whisper transcription client
func NewWhisperClient(apiKey string, opts ...WhisperOption) *WhisperClient {
	c := &WhisperClient{
		apiKey:   apiKey,
		baseURL:  OpenAIBaseURL,
		client:   &http.Client{Timeout: defaultWhisperTimeout},
		model:    ModelWhisper1,
		language: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider identifier
func (c *WhisperClient) Name() string {
	return "openai-whisper"
}

// Transcribe uploads the audio as multipart form data and returns the recognized text
func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte, opts TranscriptionOptions) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	language := opts.Language
	if language == "" {
		language = c.language
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", AudioFileName(opts.FileName, opts.ContentType))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.WriteField("language", language); err != nil {
		return "", fmt.Errorf("failed to write language field: %w", err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("failed to write response_format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+whisperEndpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", requestFailed(c.Name(), OperationTranscription, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError(c.Name(), OperationTranscription, resp.StatusCode, respBody)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return "", &ProviderError{Provider: c.Name(), Operation: OperationTranscription, Message: "empty transcript", Cause: ErrEmptyResponse}
	}
	return result.Text, nil
}

// AudioFileName picks the file name reported to the provider.
// The extension comes from the name when present, otherwise from the content type, falling back to mp3.
func AudioFileName(name, contentType string) string {
	base := path.Base(name)
	if base == "." || base == "/" {
		base = "audio"
	}
	if path.Ext(base) != "" {
		return base
	}
	return base + "." + AudioExtension(contentType)
}

// AudioExtension maps an audio MIME type to its usual file extension
func AudioExtension(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/mp4", "audio/x-m4a", "audio/m4a":
		return "m4a"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "wav"
	case "audio/webm":
		return "webm"
	case "audio/ogg":
		return "ogg"
	case "audio/flac", "audio/x-flac":
		return "flac"
	default:
		return "mp3"
	}
}

// AudioContentType maps a file extension to the MIME type providers expect
func AudioContentType(ext string) string {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "mp3", "mpeg", "mpga":
		return "audio/mpeg"
	case "m4a", "mp4":
		return "audio/mp4"
	case "wav":
		return "audio/wav"
	case "webm":
		return "audio/webm"
	case "ogg":
		return "audio/ogg"
	case "flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
