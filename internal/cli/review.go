package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roboco-io/lessonplan/internal/review"
)

var (
	reviewProvider string
	reviewModel    string
	reviewFormat   string
	reviewTimeout  time.Duration
)

var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "使用大模型检查错别字",
	Long: `调用大模型检查教案中的错别字。

检查结果仅供参考，不影响解析、生成和格式检查的结果。
服务商及 API 密钥见 providers 命令和配置项 review.providers。

示例:
  lessonplan review 教案.docx
  lessonplan review 教案.docx --provider openai --model gpt-4o
  lessonplan review 教案.txt --provider ollama --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewProvider, "provider", "p", "", "服务商 (anthropic, openai, gemini, ollama)")
	reviewCmd.Flags().StringVarP(&reviewModel, "model", "m", "", "模型名称")
	reviewCmd.Flags().StringVarP(&reviewFormat, "format", "f", "text", "输出格式 (text, json, yaml)")
	reviewCmd.Flags().DurationVar(&reviewTimeout, "timeout", 2*time.Minute, "请求超时")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	src, err := loadSource(args[0])
	if err != nil {
		return err
	}

	settings := cfg.ReviewSettings(log)
	name := reviewProvider
	if name == "" {
		name = cfg.Review.DefaultProvider
	}
	if reviewModel != "" {
		s := settings[name]
		s.Model = reviewModel
		settings[name] = s
	}

	registry := review.NewBuiltinRegistry(settings, cfg.Review.DefaultProvider)
	p, err := registry.Resolve(name)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, reviewTimeout)
	defer cancel()

	fmt.Fprintf(cmd.ErrOrStderr(), "正在检查错别字 (%s)...\n", p.Name())
	res, err := p.Review(ctx, src.Text, cfg.ReviewOptions(name))
	if err != nil {
		return fmt.Errorf("错别字检查失败: %w", err)
	}
	log.Info("review finished", "provider", p.Name(), "model", res.Model,
		"typos", len(res.Typos), "tokens", res.Usage.TotalTokens)

	if reviewFormat == "text" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
		return nil
	}
	data, err := encode(res, reviewFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
