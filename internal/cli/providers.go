package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/lessonplan/internal/review"
)

type providerInfo struct {
	DefaultModel string
	EnvKey       string
	Description  string
}

var providers = map[string]providerInfo{
	"anthropic": {
		DefaultModel: review.DefaultAnthropicModel,
		EnvKey:       "ANTHROPIC_API_KEY",
		Description:  "Anthropic Claude API",
	},
	"openai": {
		DefaultModel: review.DefaultOpenAIModel,
		EnvKey:       "OPENAI_API_KEY",
		Description:  "OpenAI GPT API",
	},
	"gemini": {
		DefaultModel: review.DefaultGeminiModel,
		EnvKey:       "GOOGLE_API_KEY",
		Description:  "Google Gemini API",
	},
	"ollama": {
		DefaultModel: review.DefaultOllamaModel,
		EnvKey:       "-",
		Description:  "本地 Ollama 服务",
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "列出错别字检查可用的服务商",
	Long: `列出 review 命令可用的大模型服务商及其配置状态。

除 ollama（本地服务，无需 API 密钥）外，每个服务商都需要在配置文件
或对应的环境变量中设置 API 密钥。

示例:
  lessonplan review 教案.docx --provider anthropic
  lessonplan review 教案.docx --provider openai --model gpt-4o`,
	Run: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) {
	registry := review.NewBuiltinRegistry(cfg.ReviewSettings(log), cfg.Review.DefaultProvider)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "服务商\t模型\t环境变量\t状态\t说明")
	fmt.Fprintln(w, "------\t----\t--------\t----\t----")

	for _, name := range review.Builtin {
		info := providers[name]
		model := info.DefaultModel
		if p, ok := cfg.GetProvider(name); ok && p.Model != "" {
			model = p.Model
		}
		_, err := registry.Resolve(name)
		status := providerStatus(name, err)
		if name == cfg.Review.DefaultProvider {
			status += " (默认)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, model, info.EnvKey, status, info.Description)
	}
}

func providerStatus(name string, err error) string {
	switch {
	case err == nil && name == "ollama":
		return "✓ 可用"
	case err == nil:
		return "✓ 已配置"
	case errors.Is(err, review.ErrNotConfigured):
		return "✗ 未配置"
	default:
		return "✗ " + err.Error()
	}
}
