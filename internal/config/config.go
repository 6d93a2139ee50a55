// Package config manages application configuration.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roboco-io/lessonplan/internal/logger"
	"github.com/roboco-io/lessonplan/internal/review"
)

// Config represents the application configuration.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
	Review ReviewConfig `yaml:"review"`
	Check  CheckConfig  `yaml:"check"`
}

// RenderConfig controls document output.
type RenderConfig struct {
	Font      string `yaml:"font"`
	FontSize  int    `yaml:"font_size"`
	OutputDir string `yaml:"output_dir"`
}

// LogConfig selects the logger mode ("development" or "production") and level.
type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

// ReviewConfig configures the typo reviewer.
type ReviewConfig struct {
	DefaultProvider string              `yaml:"default_provider"`
	Providers       map[string]Provider `yaml:"providers"`
	Temperature     float64             `yaml:"temperature"`
	Language        string              `yaml:"language"`
}

// Provider represents a review provider configuration.
type Provider struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Endpoint  string `yaml:"endpoint,omitempty"` // for Ollama or custom endpoints
}

// CheckConfig controls batch validation.
type CheckConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Font:      "微软雅黑",
			FontSize:  21,
			OutputDir: ".",
		},
		Log: LogConfig{
			Mode:  "production",
			Level: "warn",
		},
		Review: ReviewConfig{
			DefaultProvider: "anthropic",
			Providers: map[string]Provider{
				"openai": {
					APIKey:    "${OPENAI_API_KEY}",
					Model:     "gpt-4o-mini",
					MaxTokens: 4096,
				},
				"anthropic": {
					APIKey:    "${ANTHROPIC_API_KEY}",
					Model:     "claude-sonnet-4-20250514",
					MaxTokens: 4096,
				},
				"gemini": {
					APIKey:    "${GOOGLE_API_KEY}",
					Model:     "gemini-2.0-flash",
					MaxTokens: 4096,
				},
				"ollama": {
					Endpoint:  "http://localhost:11434",
					Model:     "llama3.2",
					MaxTokens: 4096,
				},
			},
			Temperature: 0.1,
			Language:    "zh",
		},
		Check: CheckConfig{
			Concurrency: 4,
		},
	}
}

// GetProvider returns the review provider configuration by name.
func (c *Config) GetProvider(name string) (*Provider, bool) {
	p, ok := c.Review.Providers[name]
	if !ok {
		return nil, false
	}
	return &p, true
}

// GetDefaultProvider returns the default review provider configuration.
func (c *Config) GetDefaultProvider() (*Provider, bool) {
	return c.GetProvider(c.Review.DefaultProvider)
}

// ReviewSettings converts the provider table into review settings.
func (c *Config) ReviewSettings(log *logger.Logger) map[string]review.Settings {
	out := make(map[string]review.Settings, len(c.Review.Providers))
	for name, p := range c.Review.Providers {
		out[name] = review.Settings{
			APIKey:   p.APIKey,
			Model:    p.Model,
			Endpoint: p.Endpoint,
			Logger:   log,
		}
	}
	return out
}

// ReviewOptions returns the request options for provider name.
func (c *Config) ReviewOptions(name string) review.Options {
	opts := review.DefaultOptions()
	if c.Review.Language != "" {
		opts.Language = c.Review.Language
	}
	opts.Temperature = c.Review.Temperature
	if p, ok := c.GetProvider(name); ok && p.MaxTokens > 0 {
		opts.MaxTokens = p.MaxTokens
	}
	return opts
}

// ValidProviders lists the provider names accepted by Set.
var ValidProviders = review.Builtin

// Keys lists the keys accepted by Set.
var Keys = []string{
	"render.font",
	"render.font_size",
	"render.output_dir",
	"log.mode",
	"log.level",
	"review.default_provider",
	"review.temperature",
	"review.language",
	"check.concurrency",
}

// Set assigns one dotted key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "render.font":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("字体不能为空")
		}
		c.Render.Font = value
	case "render.font_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("无效的字号（半磅）：%s", value)
		}
		c.Render.FontSize = n
	case "render.output_dir":
		c.Render.OutputDir = value
	case "log.mode":
		if value != "development" && value != "production" {
			return fmt.Errorf("无效的日志模式：%s（支持：development, production）", value)
		}
		c.Log.Mode = value
	case "log.level":
		switch value {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("无效的日志级别：%s（支持：debug, info, warn, error）", value)
		}
		c.Log.Level = value
	case "review.default_provider":
		if !contains(ValidProviders, value) {
			return fmt.Errorf("无效的服务商：%s（支持：%s）", value, strings.Join(ValidProviders, ", "))
		}
		c.Review.DefaultProvider = value
	case "review.temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("无效的温度值：%s", value)
		}
		if t < 0 || t > 1 {
			return fmt.Errorf("温度应在 0.0-1.0 之间：%g", t)
		}
		c.Review.Temperature = t
	case "review.language":
		if value != "zh" && value != "en" {
			return fmt.Errorf("无效的语言：%s（支持：zh, en）", value)
		}
		c.Review.Language = value
	case "check.concurrency":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("无效的并发数：%s", value)
		}
		c.Check.Concurrency = n
	default:
		return fmt.Errorf("未知的配置项：%s\n支持的配置项：%s", key, strings.Join(Keys, ", "))
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
