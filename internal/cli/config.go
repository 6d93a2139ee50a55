package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roboco-io/lessonplan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "配置管理",
	Long: `管理 lessonplan 配置。

配置文件位置: ~/.lessonplan/config.yaml

子命令:
  show    显示当前配置
  init    生成默认配置文件
  set     修改配置项
  path    显示配置文件路径`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前配置",
	Long: `显示当前生效的配置。

配置文件不存在时显示默认值。API 密钥中的 ${变量} 引用原样显示。`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "生成默认配置文件",
	Long: `在 ~/.lessonplan/config.yaml 生成默认配置文件。

配置文件已存在时报错，使用 --force 覆盖。`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "修改配置项",
	Long: `修改配置项。

支持的配置项:
  render.font               字体
  render.font_size          字号，单位半磅 (21 = 五号)
  render.output_dir         默认输出目录
  log.mode                  日志模式 (development, production)
  log.level                 日志级别 (debug, info, warn, error)
  review.default_provider   默认服务商 (anthropic, openai, gemini, ollama)
  review.temperature        温度 (0.0-1.0)
  review.language           提示语言 (zh, en)
  check.concurrency         批量检查并发数

示例:
  lessonplan config set render.font 宋体
  lessonplan config set review.default_provider ollama`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "显示配置文件路径",
	Run: func(cmd *cobra.Command, args []string) {
		loader, err := newLoader()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "错误: %v\n", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "覆盖已有配置文件")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return fmt.Errorf("配置加载器初始化失败: %w", err)
	}

	raw, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("配置加载失败: %w", err)
	}

	out := cmd.OutOrStdout()
	if loader.Exists() {
		fmt.Fprintf(out, "配置文件: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(out, "配置文件: (使用默认值)\n\n")
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("配置输出失败: %w", err)
	}
	fmt.Fprintln(out, string(data))

	fmt.Fprintln(out, "环境变量:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	envVars := []struct {
		key   string
		desc  string
		value string
	}{
		{"LESSONPLAN_CONFIG", "配置文件路径", os.Getenv("LESSONPLAN_CONFIG")},
		{"LESSONPLAN_DEBUG", "调试日志", os.Getenv("LESSONPLAN_DEBUG")},
		{"ANTHROPIC_API_KEY", "Anthropic API 密钥", maskAPIKey(os.Getenv("ANTHROPIC_API_KEY"))},
		{"OPENAI_API_KEY", "OpenAI API 密钥", maskAPIKey(os.Getenv("OPENAI_API_KEY"))},
		{"GOOGLE_API_KEY", "Google API 密钥", maskAPIKey(os.Getenv("GOOGLE_API_KEY"))},
	}
	for _, ev := range envVars {
		status := "(未设置)"
		if ev.value != "" {
			status = ev.value
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", ev.key, ev.desc, status)
	}
	return w.Flush()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return fmt.Errorf("配置加载器初始化失败: %w", err)
	}

	if loader.Exists() && !configForce {
		return fmt.Errorf("配置文件已存在: %s\n使用 --force 覆盖", loader.ConfigPath())
	}

	if err := loader.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("配置文件生成失败: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "已生成配置文件: %s\n", loader.ConfigPath())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	loader, err := newLoader()
	if err != nil {
		return fmt.Errorf("配置加载器初始化失败: %w", err)
	}

	raw, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("配置加载失败: %w", err)
	}
	if err := raw.Set(key, value); err != nil {
		return err
	}
	if err := loader.Save(raw); err != nil {
		return fmt.Errorf("配置保存失败: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "已修改: %s = %s\n", key, value)
	return nil
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
}
