package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// ModelTTS1 is the OpenAI text-to-speech model
	ModelTTS1 = "tts-1"

	// VoiceAlloy is the default narration voice
	VoiceAlloy = "alloy"

	speechEndpoint       = "/audio/speech"
	defaultSpeechTimeout = 2 * time.Minute

	// maxSpeechInput is the provider limit on characters per request
	maxSpeechInput = 4096
)

// SpeechClient narrates text with the OpenAI speech API
type SpeechClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	model   string
	voice   string
	format  string
}

// SpeechOption configures a SpeechClient
type SpeechOption func(*SpeechClient)

// WithSpeechBaseURL sets a custom base URL
func WithSpeechBaseURL(url string) SpeechOption {
	return func(c *SpeechClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithSpeechHTTPClient sets a custom HTTP client
func WithSpeechHTTPClient(client *http.Client) SpeechOption {
	return func(c *SpeechClient) {
		c.client = client
	}
}

// WithSpeechModel sets the TTS model
func WithSpeechModel(model string) SpeechOption {
	return func(c *SpeechClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithVoice sets the narration voice
func WithVoice(voice string) SpeechOption {
	return func(c *SpeechClient) {
		if voice != "" {
			c.voice = voice
		}
	}
}

// WithSpeechFormat sets the output audio format (mp3, opus, aac, flac, wav)
func WithSpeechFormat(format string) SpeechOption {
	return func(c *SpeechClient) {
		if format != "" {
			c.format = format
		}
	}
}

// NewSpeechClient creates a TTS client
func NewSpeechClient(apiKey string, opts ...SpeechOption) *SpeechClient {
	c := &SpeechClient{
		apiKey:  apiKey,
		baseURL: OpenAIBaseURL,
		client:  &http.Client{Timeout: defaultSpeechTimeout},
		model:   ModelTTS1,
		voice:   VoiceAlloy,
		format:  "mp3",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider identifier
func (c *SpeechClient) Name() string {
	return "openai-tts"
}

// Format returns the configured output format
func (c *SpeechClient) Format() string {
	return c.format
}

// Synthesize converts text to audio. Input longer than the provider limit is truncated at a word boundary.
func (c *SpeechClient) Synthesize(ctx context.Context, text string) (*Speech, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	b, err := json.Marshal(map[string]string{
		"model":           c.model,
		"voice":           c.voice,
		"input":           truncateRunes(text, maxSpeechInput),
		"response_format": c.format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+speechEndpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, requestFailed(c.Name(), OperationSynthesis, err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(c.Name(), OperationSynthesis, resp.StatusCode, audio)
	}
	if len(audio) == 0 {
		return nil, &ProviderError{Provider: c.Name(), Operation: OperationSynthesis, Message: "empty audio", Cause: ErrEmptyResponse}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = speechContentType(c.format)
	}
	return &Speech{Audio: audio, ContentType: contentType, Format: c.format}, nil
}

func speechContentType(format string) string {
	switch format {
	case "opus":
		return "audio/ogg"
	case "aac":
		return "audio/aac"
	case "flac":
		return "audio/flac"
	case "wav":
		return "audio/wav"
	case "pcm":
		return "audio/pcm"
	default:
		return "audio/mpeg"
	}
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	cut := string(r[:limit])
	if i := strings.LastIndexAny(cut, " \n\t"); i > limit/2 {
		cut = cut[:i]
	}
	return cut
}
