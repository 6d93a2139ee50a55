// Package review asks a language model to proofread lesson-plan text for
// typos. It is a side channel: its findings never change parsing, rendering
// or validation results.
package review

import (
	"context"

	"github.com/roboco-io/lessonplan/internal/logger"
)

// Provider is implemented by every typo-review backend.
type Provider interface {
	// Name returns the provider identifier (e.g. "openai", "anthropic").
	Name() string

	// Review proofreads text and returns the typos found.
	Review(ctx context.Context, text string, opts Options) (*Result, error)

	// Validate reports whether the provider has what it needs to run.
	Validate() error
}

// Settings configure one provider instance.
type Settings struct {
	APIKey   string
	Model    string
	Endpoint string
	Logger   *logger.Logger
}

// Options control one review call.
type Options struct {
	Language    string  `json:"language,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	// Prompt replaces the default system prompt when set.
	Prompt string `json:"prompt,omitempty"`
}

// DefaultOptions returns the default review options.
func DefaultOptions() Options {
	return Options{
		Language:    "zh",
		MaxTokens:   4096,
		Temperature: 0.1,
	}
}

// Typo is one suspected misspelling.
type Typo struct {
	Word     string `json:"word"`
	Correct  string `json:"correct"`
	Position int    `json:"position"`
	Context  string `json:"context"`
}

// Result is the outcome of a review.
type Result struct {
	Typos   []Typo     `json:"typos"`
	Summary string     `json:"summary"`
	Model   string     `json:"model"`
	Usage   TokenUsage `json:"usage"`
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
