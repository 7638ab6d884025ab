package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// ModelGeminiFlash is the default Gemini analysis model
const ModelGeminiFlash = "gemini-2.5-flash"

// GeminiClient analyzes discussions with Google Gemini.
// Several API keys may be configured; a rate-limited key rotates to the next one.
type GeminiClient struct {
	apiKeys     []string
	model       string
	baseURL     string
	temperature float32
	maxTokens   int32

	mu         sync.Mutex
	currentKey int
}

// GeminiOption configures a GeminiClient
type GeminiOption func(*GeminiClient)

// WithGeminiModel sets the model
func WithGeminiModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithGeminiBaseURL sets a custom API root
func WithGeminiBaseURL(url string) GeminiOption {
	return func(c *GeminiClient) {
		c.baseURL = url
	}
}

// WithGeminiTemperature sets the sampling temperature
func WithGeminiTemperature(t float64) GeminiOption {
	return func(c *GeminiClient) {
		c.temperature = float32(t)
	}
}

// WithGeminiMaxTokens caps the output length
func WithGeminiMaxTokens(n int) GeminiOption {
	return func(c *GeminiClient) {
		if n > 0 {
			c.maxTokens = int32(n)
		}
	}
}

// NewGeminiAnalyzer creates a Gemini analyzer. apiKeys is a comma separated list.
func NewGeminiAnalyzer(apiKeys string, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		model:       ModelGeminiFlash,
		temperature: 0.4,
		maxTokens:   3000,
	}
	for _, k := range strings.Split(apiKeys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			c.apiKeys = append(c.apiKeys, k)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider identifier
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Analyze asks Gemini for a JSON analysis constrained by a response schema
func (c *GeminiClient) Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, ErrEmptyText
	}
	if len(c.apiKeys) == 0 {
		return nil, &ProviderError{Provider: c.Name(), Operation: OperationCompletion, Message: "no API key configured", Cause: ErrInvalidAPIKey}
	}

	prompt := buildUserPrompt(req)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
		MaxOutputTokens:   c.maxTokens,
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary":    {Type: genai.TypeString, Description: "2-3 paragraphs summarizing the discussion"},
				"conclusion": {Type: genai.TypeString, Description: "1-2 paragraphs of key takeaways"},
				"criticism":  {Type: genai.TypeString, Description: "2-3 paragraphs comparing the discussion with the scientific source"},
			},
			Required:         []string{"summary", "conclusion", "criticism"},
			PropertyOrdering: []string{"summary", "conclusion", "criticism"},
		},
	}

	var lastErr error
	for range c.apiKeys {
		key := c.key()

		clientCfg := &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		}
		if c.baseURL != "" {
			clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
		}
		client, err := genai.NewClient(ctx, clientCfg)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			c.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
		if err != nil {
			if isQuotaError(err) {
				lastErr = &ProviderError{Provider: c.Name(), Operation: OperationCompletion, StatusCode: 429, Message: err.Error(), Cause: ErrRateLimited, Retryable: true}
				c.rotateKey()
				continue
			}
			return nil, &ProviderError{Provider: c.Name(), Operation: OperationCompletion, Message: err.Error(), Cause: err}
		}

		text := result.Text()
		if text == "" {
			return nil, &ProviderError{Provider: c.Name(), Operation: OperationCompletion, Message: "empty response", Cause: ErrEmptyResponse}
		}

		analysis, err := ParseAnalysis(text)
		if err != nil {
			return nil, &ProviderError{Provider: c.Name(), Operation: OperationCompletion, Message: err.Error(), Cause: err}
		}
		return analysis, nil
	}

	return nil, fmt.Errorf("all Gemini API keys exhausted: %w", lastErr)
}

func (c *GeminiClient) key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKeys[c.currentKey]
}

func (c *GeminiClient) rotateKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
