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
	// GroqBaseURL is the OpenAI-compatible Groq API root
	GroqBaseURL = "https://api.groq.com/openai/v1"

	// ModelGPT4o is the default OpenAI analysis model
	ModelGPT4o = "gpt-4o"

	// ModelLlama70B is the default Groq analysis model
	ModelLlama70B = "llama-3.3-70b-versatile"

	chatEndpoint       = "/chat/completions"
	defaultChatTimeout = 3 * time.Minute
)

// ChatClient analyzes discussions through an OpenAI-compatible chat completions API
type ChatClient struct {
	provider    string
	apiKey      string
	baseURL     string
	client      *http.Client
	model       string
	temperature float64
	maxTokens   int
	strict      bool
}

// ChatOption configures a ChatClient
type ChatOption func(*ChatClient)

// WithChatBaseURL sets a custom base URL
func WithChatBaseURL(url string) ChatOption {
	return func(c *ChatClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithChatHTTPClient sets a custom HTTP client
func WithChatHTTPClient(client *http.Client) ChatOption {
	return func(c *ChatClient) {
		c.client = client
	}
}

// WithChatModel sets the completion model
func WithChatModel(model string) ChatOption {
	return func(c *ChatClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float64) ChatOption {
	return func(c *ChatClient) {
		c.temperature = t
	}
}

// WithMaxTokens caps the completion length
func WithMaxTokens(n int) ChatOption {
	return func(c *ChatClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// NewOpenAIAnalyzer creates an analyzer backed by OpenAI structured outputs
func NewOpenAIAnalyzer(apiKey string, opts ...ChatOption) *ChatClient {
	return newChatClient("openai", apiKey, OpenAIBaseURL, ModelGPT4o, true, opts)
}

// NewGroqAnalyzer creates an analyzer backed by Groq JSON mode
func NewGroqAnalyzer(apiKey string, opts ...ChatOption) *ChatClient {
	return newChatClient("groq", apiKey, GroqBaseURL, ModelLlama70B, false, opts)
}

func newChatClient(provider, apiKey, baseURL, model string, strict bool, opts []ChatOption) *ChatClient {
	c := &ChatClient{
		provider:    provider,
		apiKey:      apiKey,
		baseURL:     baseURL,
		client:      &http.Client{Timeout: defaultChatTimeout},
		model:       model,
		temperature: 0.4,
		maxTokens:   3000,
		strict:      strict,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider identifier
func (c *ChatClient) Name() string {
	return c.provider
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string                 `json:"model"`
	Messages       []chatMessage          `json:"messages"`
	Temperature    float64                `json:"temperature"`
	MaxTokens      int                    `json:"max_tokens,omitempty"`
	ResponseFormat map[string]interface{} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Analyze sends the transcript and document to the model and parses the structured reply
func (c *ChatClient) Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, ErrEmptyText
	}

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(req)},
		},
		Temperature:    c.temperature,
		MaxTokens:      c.maxTokens,
		ResponseFormat: c.responseFormat(),
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatEndpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, requestFailed(c.provider, OperationCompletion, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(c.provider, OperationCompletion, resp.StatusCode, respBody)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, &ProviderError{Provider: c.provider, Operation: OperationCompletion, Message: "no choices returned", Cause: ErrEmptyResponse}
	}

	msg := cr.Choices[0].Message
	if msg.Refusal != "" {
		return nil, &ProviderError{Provider: c.provider, Operation: OperationCompletion, Code: "refusal", Message: msg.Refusal, Cause: ErrMalformedOutput}
	}

	analysis, err := ParseAnalysis(msg.Content)
	if err != nil {
		return nil, &ProviderError{Provider: c.provider, Operation: OperationCompletion, Message: err.Error(), Cause: err}
	}
	return analysis, nil
}

func (c *ChatClient) responseFormat() map[string]interface{} {
	if !c.strict {
		return map[string]interface{}{"type": "json_object"}
	}
	return map[string]interface{}{
		"type": "json_schema",
		"json_schema": map[string]interface{}{
			"name":   "clinical_analysis",
			"strict": true,
			"schema": analysisSchema,
		},
	}
}
