package review

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/roboco-io/lessonplan/internal/logger"
)

const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultOllamaModel = "llama3.2"
	// DefaultOllamaEndpoint is the local Ollama server.
	DefaultOllamaEndpoint = "http://localhost:11434"
)

// OpenAI reviews text with a chat-completions endpoint. The same client
// drives Ollama through its OpenAI-compatible API.
type OpenAI struct {
	name     string
	settings Settings
	local    bool
	log      *logger.Logger
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(s Settings) *OpenAI {
	if s.Model == "" {
		s.Model = DefaultOpenAIModel
	}
	return &OpenAI{name: "openai", settings: s, log: logger.OrNop(s.Logger)}
}

// NewOllama creates a provider for a local Ollama server. No API key is
// needed.
func NewOllama(s Settings) *OpenAI {
	if s.Model == "" {
		s.Model = DefaultOllamaModel
	}
	if s.Endpoint == "" {
		s.Endpoint = DefaultOllamaEndpoint
	}
	return &OpenAI{name: "ollama", settings: s, local: true, log: logger.OrNop(s.Logger)}
}

func (p *OpenAI) Name() string { return p.name }

func (p *OpenAI) Validate() error {
	if p.local {
		if p.settings.Endpoint == "" {
			return fmt.Errorf("%w: ollama endpoint is empty", ErrNotConfigured)
		}
		return nil
	}
	if p.settings.APIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrNotConfigured)
	}
	return nil
}

// baseURL returns the API root for the client, appending /v1 to a bare
// Ollama host.
func (p *OpenAI) baseURL() string {
	url := strings.TrimRight(p.settings.Endpoint, "/")
	if p.local && !strings.HasSuffix(url, "/v1") {
		url += "/v1"
	}
	return url
}

func (p *OpenAI) Review(ctx context.Context, text string, opts Options) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	key := p.settings.APIKey
	if p.local && key == "" {
		key = "ollama"
	}
	cfg := openai.DefaultConfig(key)
	if p.settings.Endpoint != "" {
		cfg.BaseURL = p.baseURL()
	}
	client := openai.NewClientWithConfig(cfg)

	req := openai.ChatCompletionRequest{
		Model: p.settings.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system(opts)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(text)},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
	}
	if !p.local {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	p.log.Debug("requesting review", "provider", p.name, "model", p.settings.Model, "chars", len(text))
	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s review: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s review: empty response", p.name)
	}

	return newResult(resp.Choices[0].Message.Content, resp.Model, TokenUsage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	})
}
