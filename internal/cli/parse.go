package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/lessonplan/internal/template"
)

var (
	parseOutput  string
	parseFormat  string
	parseDialect string
	parseFull    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "将教案解析为结构化数据",
	Long: `将教案文档解析为结构化数据并输出为 JSON 或 YAML。

输出的结构文件可以直接编辑，再用 render 命令生成 .docx，
或用 edit 命令按路径修改。

示例:
  lessonplan parse 教案.docx
  lessonplan parse 教案.docx --format yaml -o 教案.yaml
  lessonplan parse 教案.txt --dialect SY003`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "输出文件路径 (默认: stdout)")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "输出格式 (json, yaml)")
	parseCmd.Flags().StringVarP(&parseDialect, "dialect", "d", "", "指定模板 (SY001-SY005)，跳过自动识别")
	parseCmd.Flags().BoolVar(&parseFull, "full", false, "同时输出模板信息")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := loadSource(args[0])
	if err != nil {
		return err
	}

	res, err := template.ParseDocument(src.Text, template.Options{
		Dialect: src.dialectFor(parseDialect),
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("文档解析失败: %w", err)
	}
	if res.Fallback {
		fmt.Fprintf(cmd.ErrOrStderr(), "未识别到模板，按 %s %s 解析\n", res.Template.ID, res.Template.Name)
	}

	var v any = res.Structure
	if parseFull {
		v = res
	}
	data, err := encode(v, parseFormat)
	if err != nil {
		return err
	}
	if err := writeOutput(parseOutput, data); err != nil {
		return err
	}
	if parseOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "解析完成: %s\n", parseOutput)
	}
	return nil
}
