package review

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/roboco-io/lessonplan/internal/logger"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini reviews text with the Gemini API.
type Gemini struct {
	settings Settings
	log      *logger.Logger
}

// NewGemini creates a Gemini provider.
func NewGemini(s Settings) *Gemini {
	if s.Model == "" {
		s.Model = DefaultGeminiModel
	}
	return &Gemini{settings: s, log: logger.OrNop(s.Logger)}
}

func (p *Gemini) Name() string { return "gemini" }

func (p *Gemini) Validate() error {
	if p.settings.APIKey == "" {
		return fmt.Errorf("%w: GOOGLE_API_KEY is not set", ErrNotConfigured)
	}
	return nil
}

func (p *Gemini) Review(ctx context.Context, text string, opts Options) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.settings.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	p.log.Debug("requesting review", "provider", p.Name(), "model", p.settings.Model, "chars", len(text))
	resp, err := client.Models.GenerateContent(ctx, p.settings.Model, genai.Text(userPrompt(text)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system(opts), genai.RoleUser),
		Temperature:       genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens:   int32(opts.MaxTokens),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini review: %w", err)
	}

	var usage TokenUsage
	if m := resp.UsageMetadata; m != nil {
		usage = TokenUsage{
			InputTokens:  int(m.PromptTokenCount),
			OutputTokens: int(m.CandidatesTokenCount),
			TotalTokens:  int(m.TotalTokenCount),
		}
	}
	model := resp.ModelVersion
	if model == "" {
		model = p.settings.Model
	}
	return newResult(resp.Text(), model, usage)
}
