// Package cli implements the lessonplan command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roboco-io/lessonplan/internal/config"
	"github.com/roboco-io/lessonplan/internal/logger"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	devLog     bool

	cfg = config.DefaultConfig()
	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "lessonplan",
	Short: "教案文档识别、解析、生成与校验",
	Long: `lessonplan 识别五种教案模板（SY001-SY005），将文档解析为结构化数据，
按模板版式重新生成 .docx，并检查格式规范。

支持的输入：.docx、.txt（.doc 旧格式需先另存为 .docx）

环境变量:
  LESSONPLAN_CONFIG   配置文件路径
  LESSONPLAN_DEBUG    设为 true 时输出调试日志

示例:
  lessonplan identify 教案.docx
  lessonplan parse 教案.docx --format yaml
  lessonplan render 教案.docx -o 输出.docx
  lessonplan check *.docx --style`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lessonplan %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径 (默认: ~/.lessonplan/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&devLog, "dev", false, "使用开发模式日志（控制台格式）")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func newLoader() (*config.Loader, error) {
	if path := configPath; path != "" {
		return config.NewLoaderWithPath(path), nil
	}
	if path := config.GetEnvOrDefault("LESSONPLAN_CONFIG", ""); path != "" {
		return config.NewLoaderWithPath(path), nil
	}
	return config.NewLoader()
}

// setup loads the configuration and builds the shared logger.
func setup(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return fmt.Errorf("配置加载器初始化失败: %w", err)
	}
	cfg, err = loader.Load()
	if err != nil {
		return fmt.Errorf("配置加载失败: %w", err)
	}

	mode, level := cfg.Log.Mode, cfg.Log.Level
	if devLog {
		mode = "development"
	}
	if config.GetEnvBool("LESSONPLAN_DEBUG") {
		level = "debug"
	}
	if logLevel != "" {
		level = logLevel
	}
	log, err = logger.New(mode, level)
	if err != nil {
		return fmt.Errorf("日志初始化失败: %w", err)
	}
	log.Debug("configuration loaded", "path", loader.ConfigPath(), "exists", loader.Exists())
	return nil
}
