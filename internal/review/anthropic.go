package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/roboco-io/lessonplan/internal/logger"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// Anthropic reviews text with the Claude Messages API.
type Anthropic struct {
	settings Settings
	log      *logger.Logger
}

// NewAnthropic creates an Anthropic provider.
func NewAnthropic(s Settings) *Anthropic {
	if s.Model == "" {
		s.Model = DefaultAnthropicModel
	}
	return &Anthropic{settings: s, log: logger.OrNop(s.Logger)}
}

func (p *Anthropic) Name() string { return "anthropic" }

func (p *Anthropic) Validate() error {
	if p.settings.APIKey == "" {
		return fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrNotConfigured)
	}
	return nil
}

func (p *Anthropic) Review(ctx context.Context, text string, opts Options) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(p.settings.APIKey)}
	if p.settings.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(p.settings.Endpoint))
	}
	client := anthropic.NewClient(clientOpts...)

	p.log.Debug("requesting review", "provider", p.Name(), "model", p.settings.Model, "chars", len(text))
	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.settings.Model),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
		System:      []anthropic.TextBlockParam{{Text: system(opts)}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt(text))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic review: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		b.WriteString(block.Text)
	}
	usage := TokenUsage{
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	return newResult(b.String(), string(msg.Model), usage)
}
